package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderTwilio = "twilio"
	ProviderLog    = "log"

	TriggerHTTP  = "http"
	TriggerEvent = "event"
)

type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigins []string

	SlowRequestThreshold time.Duration

	MessageProvider    string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	ReminderContentSID string

	QueueAlertCap   int
	QueueTrigger    string
	SendConcurrency int

	Location          *time.Location
	ReminderCron      string
	ReminderScheduler bool
	FallbackProvider  string
}

// Error reports an unusable configuration value. It is returned before any
// connection is opened so callers can tell bootstrap failures from runtime ones.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

func Load() (Config, error) {
	cfg := Config{
		Port:               getenv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DB_URL"),
		CORSOrigins:        splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		MessageProvider:    strings.ToLower(getenv("MESSAGE_PROVIDER", ProviderTwilio)),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		ReminderContentSID: os.Getenv("TWILIO_REMINDER_CONTENT_SID"),
		QueueTrigger:       strings.ToLower(getenv("QUEUE_TRIGGER", TriggerHTTP)),
		ReminderCron:       getenv("REMINDER_CRON", "0 20 * * *"),
		FallbackProvider:   getenv("REMINDER_FALLBACK_PROVIDER", "your barber"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, &Error{Key: "DB_URL", Reason: "is required"}
	}

	var err error
	if cfg.QueueAlertCap, err = readInt("QUEUE_ALERT_CAP", 3); err != nil {
		return Config{}, err
	}
	if cfg.SendConcurrency, err = readInt("SEND_CONCURRENCY", 5); err != nil {
		return Config{}, err
	}
	slowMs, err := readInt("SLOW_REQUEST_MS", int(DefaultSlowRequestThreshold/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	cfg.SlowRequestThreshold = time.Duration(slowMs) * time.Millisecond
	if cfg.ReminderScheduler, err = readBool("REMINDER_SCHEDULER", true); err != nil {
		return Config{}, err
	}

	tz := getenv("REMINDER_TZ", "America/Sao_Paulo")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return Config{}, &Error{Key: "REMINDER_TZ", Reason: fmt.Sprintf("%q is not a known timezone", tz)}
	}

	switch cfg.QueueTrigger {
	case TriggerHTTP, TriggerEvent:
	default:
		return Config{}, &Error{Key: "QUEUE_TRIGGER", Reason: fmt.Sprintf("must be %q or %q", TriggerHTTP, TriggerEvent)}
	}

	switch cfg.MessageProvider {
	case ProviderLog:
	case ProviderTwilio:
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
			return Config{}, &Error{Key: "TWILIO_ACCOUNT_SID/TWILIO_AUTH_TOKEN", Reason: "are required for the twilio provider"}
		}
		if cfg.TwilioWhatsAppFrom == "" {
			return Config{}, &Error{Key: "TWILIO_WHATSAPP_FROM", Reason: "is required for the twilio provider"}
		}
		// reminders go out proactively and WhatsApp only accepts approved templates for those
		if cfg.ReminderContentSID == "" {
			return Config{}, &Error{Key: "TWILIO_REMINDER_CONTENT_SID", Reason: "is required for the twilio provider"}
		}
	default:
		return Config{}, &Error{Key: "MESSAGE_PROVIDER", Reason: fmt.Sprintf("unknown provider %q", cfg.MessageProvider)}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, &Error{Key: key, Reason: "must be a positive integer"}
	}
	return value, nil
}

func readBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &Error{Key: key, Reason: "must be a boolean"}
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
