package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	NotifyDriverAsynq = "asynq"
	NotifyDriverLog   = "log"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level slog.Level
}

type StorageConfig struct {
	Driver string
}

type RedisConfig struct {
	// Addr is empty when Redis is not used.
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int32
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type RateLimitConfig struct {
	// Tickets is how many tickets one user may request per Window.
	Tickets int
	Window  time.Duration
}

type NotifyConfig struct {
	Driver      string
	Concurrency int
	WhatsApp    WhatsAppConfig
}

type WhatsAppConfig struct {
	PhoneID string
	Token   string
	To      string
}

func (c WhatsAppConfig) Enabled() bool {
	return c.PhoneID != "" && c.Token != "" && c.To != ""
}

type CacheConfig struct {
	StoreDetailsTTL time.Duration
	IdempotencyTTL  time.Duration
}

type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shutdownTimeout, err := durationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host:            stringEnv("SERVER_HOST", "localhost"),
		Port:            serverPort,
		ShutdownTimeout: shutdownTimeout,
	}

	var logCfg LogConfig
	if err := logCfg.Level.UnmarshalText([]byte(stringEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("%s: invalid LOG_LEVEL: %w", op, err)
	}

	storageCfg := StorageConfig{
		Driver: strings.ToLower(stringEnv("STORAGE_DRIVER", StorageDriverPostgres)),
	}

	var postgresCfg PostgresConfig
	switch storageCfg.Driver {
	case StorageDriverPostgres:
		postgresCfg, err = loadPostgres()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("%s: unknown STORAGE_DRIVER %q", op, storageCfg.Driver)
	}

	redisDefault := ""
	if storageCfg.Driver == StorageDriverPostgres {
		redisDefault = "localhost:6380"
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     stringEnv("REDIS_ADDR", redisDefault),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("%s: missing JWT_SECRET", op)
	}

	tokenTTL, err := durationEnv("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authCfg := AuthConfig{
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
	}

	rlTickets, err := intEnv("RATE_LIMIT_TICKETS", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rlWindow, err := durationEnv("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rateLimitCfg := RateLimitConfig{
		Tickets: rlTickets,
		Window:  rlWindow,
	}

	notifyDefault := NotifyDriverLog
	if redisCfg.Enabled() {
		notifyDefault = NotifyDriverAsynq
	}

	notifyConcurrency, err := intEnv("NOTIFY_CONCURRENCY", 5)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	notifyCfg := NotifyConfig{
		Driver:      strings.ToLower(stringEnv("NOTIFY_DRIVER", notifyDefault)),
		Concurrency: notifyConcurrency,
		WhatsApp: WhatsAppConfig{
			PhoneID: os.Getenv("WHATSAPP_PHONE_ID"),
			Token:   os.Getenv("WHATSAPP_TOKEN"),
			To:      os.Getenv("WHATSAPP_TO"),
		},
	}

	switch notifyCfg.Driver {
	case NotifyDriverLog:
	case NotifyDriverAsynq:
		if !redisCfg.Enabled() {
			return nil, fmt.Errorf("%s: NOTIFY_DRIVER=asynq requires REDIS_ADDR", op)
		}
	default:
		return nil, fmt.Errorf("%s: unknown NOTIFY_DRIVER %q", op, notifyCfg.Driver)
	}

	detailsTTL, err := durationEnv("CACHE_STORE_DETAILS_TTL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idemTTL, err := durationEnv("IDEMPOTENCY_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheCfg := CacheConfig{
		StoreDetailsTTL: detailsTTL,
		IdempotencyTTL:  idemTTL,
	}

	telemetryCfg := TelemetryConfig{
		Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}

	return &Config{
		Server:    serverCfg,
		Log:       logCfg,
		Storage:   storageCfg,
		Postgres:  postgresCfg,
		Redis:     redisCfg,
		Auth:      authCfg,
		RateLimit: rateLimitCfg,
		Notify:    notifyCfg,
		Cache:     cacheCfg,
		Telemetry: telemetryCfg,
	}, nil
}

func loadPostgres() (PostgresConfig, error) {
	postgresPort, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, err
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_USER")
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_PASSWORD")
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_DB")
	}

	maxConns, err := intEnv("POSTGRES_MAX_CONNS", 10)
	if err != nil {
		return PostgresConfig{}, err
	}

	return PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     stringEnv("POSTGRES_HOST", "localhost"),
		Port:     postgresPort,
		SSLMode:  stringEnv("POSTGRES_SSLMODE", "disable"),
		MaxConns: int32(maxConns),
	}, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return d, nil
}
