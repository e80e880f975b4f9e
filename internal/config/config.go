package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	LegalAPI LegalAPIConfig
	Drafts   DraftsConfig
	Events   EventsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WSLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	SessionTTL         time.Duration
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
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

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Email != ""
}

type LegalAPIConfig struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	TemplateTTL time.Duration
}

// Draft store backends.
const (
	DraftStoreMemory   = "memory"
	DraftStoreRedis    = "redis"
	DraftStorePostgres = "postgres"
	DraftStoreSQLite   = "sqlite"
)

type DraftsConfig struct {
	Store      string
	TTL        time.Duration
	SQLitePath string
}

type EventsConfig struct {
	SubmissionTopic  string
	DashboardDurable string
	CaseSubject      string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WSLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			SessionTTL:         getEnvAsDuration("WIZARD_SESSION_TTL", 2*time.Hour),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Legal Aid Intake"),
		},
		LegalAPI: LegalAPIConfig{
			BaseURL:     getEnv("LEGAL_API_BASE_URL", "http://localhost:8080/api/v1"),
			Token:       getEnv("LEGAL_API_TOKEN", ""),
			Timeout:     getEnvAsDuration("LEGAL_API_TIMEOUT", 15*time.Second),
			TemplateTTL: getEnvAsDuration("LEGAL_API_TEMPLATE_TTL", 5*time.Minute),
		},
		Drafts: DraftsConfig{
			Store:      strings.ToLower(getEnv("DRAFT_STORE", DraftStoreMemory)),
			TTL:        getEnvAsDuration("DRAFT_TTL", 30*24*time.Hour),
			SQLitePath: getEnv("DRAFT_SQLITE_PATH", "drafts.db"),
		},
		Events: EventsConfig{
			SubmissionTopic:  getEnv("SUBMISSION_TOPIC_NAME", "SUBMISSION_COMPLETED"),
			DashboardDurable: getEnv("DASHBOARD_DURABLE_NAME", "dashboard-service-worker"),
			CaseSubject:      getEnv("CASE_EVENTS_SUBJECT", "events.CASE_*"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "legalaid-intake-be"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
