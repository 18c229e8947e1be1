package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Timezone all week keys and booked dates are normalized in.
	ScheduleTimezone *time.Location
	Rollover         RolloverConfig

	NotifyQueueSize int

	SMTP     SMTPConfig
	WhatsApp WhatsAppConfig
	Push     PushConfig
	Slack    SlackConfig
}

type RolloverConfig struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type WhatsAppConfig struct {
	APIURL        string
	Token         string
	PhoneNumberID string
}

type PushConfig struct {
	URL         string
	AccessToken string
}

type SlackConfig struct {
	Token        string
	OpsChannelID string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		refreshExpiry = 168 * time.Hour
	}

	loc, err := time.LoadLocation(getEnv("SCHEDULE_TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE: %w", err)
	}

	rollover, err := parseRollover(getEnv("ROLLOVER_WEEKDAY", "sunday"), getEnv("ROLLOVER_TIME", "23:30"))
	if err != nil {
		return nil, err
	}

	queueSize, err := strconv.Atoi(getEnv("NOTIFY_QUEUE_SIZE", "256"))
	if err != nil || queueSize <= 0 {
		queueSize = 256
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		ScheduleTimezone: loc,
		Rollover:         rollover,

		NotifyQueueSize: queueSize,

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		WhatsApp: WhatsAppConfig{
			APIURL:        getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
			Token:         getEnv("WHATSAPP_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		},
		Push: PushConfig{
			URL:         getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
			AccessToken: getEnv("EXPO_ACCESS_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:        getEnv("SLACK_BOT_TOKEN", ""),
			OpsChannelID: getEnv("SLACK_OPS_CHANNEL_ID", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseRollover(weekday, clock string) (RolloverConfig, error) {
	wd, ok := weekdays[strings.ToLower(weekday)]
	if !ok {
		return RolloverConfig{}, fmt.Errorf("invalid ROLLOVER_WEEKDAY: %q", weekday)
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return RolloverConfig{}, fmt.Errorf("invalid ROLLOVER_TIME: %w", err)
	}
	return RolloverConfig{Weekday: wd, Hour: t.Hour(), Minute: t.Minute()}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
