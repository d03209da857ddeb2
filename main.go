// File: medigate/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medigate/config"
	"medigate/cron"
	"medigate/handlers"
	"medigate/middleware"
	"medigate/routes"
	"medigate/services/appointment"
	"medigate/services/helpdesk"
	"medigate/services/session"
	"medigate/services/tasks"
	"medigate/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// services.
	sessionService := session.NewDefaultSessionService(utils.GetSessionCacheClient())
	helpdeskService := helpdesk.NewDefaultHelpdeskService(utils.GetCacheClient())
	appointmentService := &appointment.DefaultAppointmentService{
		Reminders: tasks.NewReminderScheduler(),
	}

	// handlers.
	authHandler := handlers.NewAuthHandler(sessionService)
	helpdeskHandler := handlers.NewHelpdeskHandler(helpdeskService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)

	handlerBundle := &handlers.HandlerBundle{
		Sessions: sessionService,

		// Auth endpoints.
		LoginHandler:  authHandler.LoginHandler,
		LogoutHandler: authHandler.LogoutHandler,

		// Helpdesk endpoints.
		AvailabilityHandler: helpdeskHandler.AvailabilityHandler,

		// Appointment endpoints.
		BookAppointmentHandler:   appointmentHandler.BookAppointmentHandler,
		ListAppointmentsHandler:  appointmentHandler.ListAppointmentsHandler,
		CancelAppointmentHandler: appointmentHandler.CancelAppointmentHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder delivery.
	cron.InitReminderWorker()

	// Health monitoring of Redis and the hospital backend.
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetSessionCacheClient()},
		config.AppConfig.BackendBaseURL,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
