package cron

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"medigate/config"
	"medigate/gateway"
	"medigate/models"
	"medigate/services/session"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// InitReminderWorker runs the async worker in background.
func InitReminderWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask())

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// serviceGW caches the worker's service-account gateway across tasks; it is
// rebuilt after an upstream session end.
var (
	serviceGWMu sync.Mutex
	serviceGW   *gateway.SessionGateway
)

func workerGateway(ctx context.Context) (*gateway.SessionGateway, error) {
	serviceGWMu.Lock()
	defer serviceGWMu.Unlock()
	if serviceGW != nil {
		return serviceGW, nil
	}
	gw, err := session.ServiceGateway(ctx)
	if err != nil {
		return nil, err
	}
	gw.OnSessionEnd(func() {
		serviceGWMu.Lock()
		serviceGW = nil
		serviceGWMu.Unlock()
	})
	serviceGW = gw
	return gw, nil
}

func handleReminderTask() asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] triggering reminder for appointment %s -> patient %s: %s", p.AppointmentID, p.PatientID, p.Title)

		gw, err := workerGateway(ctx)
		if err != nil {
			log.Printf("[ReminderHandler] no service gateway: %v", err)
			return err // asynq retries the task
		}

		notice := map[string]any{
			"patientId":     p.PatientID,
			"appointmentId": p.AppointmentID,
			"title":         p.Title,
			"body":          p.Body,
			"fireDate":      p.FireDate,
		}
		if err := gw.Post(ctx, "/notifications", notice, nil); err != nil {
			log.Printf("[ReminderHandler] failed to deliver reminder: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
