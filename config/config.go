package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Upstream hospital backend.
	BackendBaseURL   string `mapstructure:"BACKEND_BASE_URL"`
	BackendLoginPath string `mapstructure:"BACKEND_LOGIN_PATH"`
	RefreshPath      string `mapstructure:"BACKEND_REFRESH_PATH"`

	// Service account used by background workers (reminders).
	ServiceAccountID  string `mapstructure:"SERVICE_ACCOUNT_ID"`
	ServiceAccountKey string `mapstructure:"SERVICE_ACCOUNT_KEY"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Appointment slot defaults.
	SlotIncrementMinutes int `mapstructure:"SLOT_INCREMENT_MINUTES"`
	HourlyCapacity       int `mapstructure:"HOURLY_CAPACITY"`

	// Sessions and reminders.
	SessionTTLHours   int `mapstructure:"SESSION_TTL_HOURS"`
	ReminderLeadHours int `mapstructure:"REMINDER_LEAD_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:5000/api")
	viper.SetDefault("BACKEND_LOGIN_PATH", "/auth/login")
	viper.SetDefault("BACKEND_REFRESH_PATH", "/auth/refresh")
	viper.SetDefault("SERVICE_ACCOUNT_ID", "")
	viper.SetDefault("SERVICE_ACCOUNT_KEY", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("SLOT_INCREMENT_MINUTES", 5)
	viper.SetDefault("HOURLY_CAPACITY", 12)
	viper.SetDefault("SESSION_TTL_HOURS", 12)
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
