package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Booking  BookingConfig
	Topics   TopicConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// BookingConfig carries the operating parameters of the studio schedule.
type BookingConfig struct {
	OpenTime               string
	CloseTime              string
	SlotIntervalMinutes    int
	DefaultDurationMinutes int
	DefaultXPAward         int
	RescheduleEmbargoHours int
}

type TopicConfig struct {
	XPAwards string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "StudioBooking"),
		},
		Booking: BookingConfig{
			OpenTime:               getEnv("BOOKING_OPEN_TIME", "10:00"),
			CloseTime:              getEnv("BOOKING_CLOSE_TIME", "20:00"),
			SlotIntervalMinutes:    getEnvAsInt("SLOT_INTERVAL_MINUTES", 30),
			DefaultDurationMinutes: getEnvAsInt("DEFAULT_DURATION_MINUTES", 60),
			DefaultXPAward:         getEnvAsInt("DEFAULT_XP_AWARD", 100),
			RescheduleEmbargoHours: getEnvAsInt("RESCHEDULE_EMBARGO_HOURS", 8),
		},
		Topics: TopicConfig{
			XPAwards: getEnv("XP_AWARDS_TOPIC_NAME", "XP_AWARDS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
