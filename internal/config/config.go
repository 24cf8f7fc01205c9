package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Tracing     TracingConfig     `toml:"tracing"`
	Redis       RedisConfig       `toml:"redis"`
	Kafka       KafkaConfig       `toml:"kafka"`
	SMTP        SMTPConfig        `toml:"smtp"`
	Booking     BookingConfig     `toml:"booking"`
	Recommender RecommenderConfig `toml:"recommender"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`

	// PublicURL внешний адрес сервиса, из него строится ссылка регистрации в QR-коде
	PublicURL string `toml:"public_url"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN формирует строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// RedisConfig кеш почасового трафика для рекомендаций
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// KafkaConfig публикация событий жизненного цикла бронирования
type KafkaConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"` // через запятую
	Topic   string `toml:"topic"`
}

// SMTPConfig отправка email уведомлений
type SMTPConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// BookingConfig параметры бронирования
type BookingConfig struct {
	MaxTxRetries int `toml:"max_tx_retries"`
}

// RecommenderConfig параметры рекомендаций
type RecommenderConfig struct {
	LookbackDays int `toml:"lookback_days"`
	DefaultLimit int `toml:"default_limit"`
}

// Load читает TOML файл, подтягивает секреты из окружения (.env, если есть)
// и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.SMTP.Password, "SMTP_PASSWORD")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.Database.Host, "DB_HOST")
	overrideString(&c.Kafka.Brokers, "KAFKA_BROKERS")
	overrideString(&c.Tracing.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	setIntDefault(&c.Server.HTTPPort, 8080)
	setIntDefault(&c.Server.ReadTimeout, 15)
	setIntDefault(&c.Server.WriteTimeout, 15)
	setIntDefault(&c.Server.IdleTimeout, 60)
	setIntDefault(&c.Server.ShutdownTimeout, 10)
	setStringDefault(&c.Server.PublicURL, "http://localhost:8080")
	c.Server.PublicURL = strings.TrimRight(c.Server.PublicURL, "/")

	setIntDefault(&c.Database.Port, 5432)
	setIntDefault(&c.Database.MaxOpenConns, 25)
	setIntDefault(&c.Database.MaxIdleConns, 5)
	setIntDefault(&c.Database.ConnMaxLifetime, 300)
	setStringDefault(&c.Database.SSLMode, "disable")

	setStringDefault(&c.Logs.Level, "info")
	setStringDefault(&c.Metrics.Path, "/metrics")
	setStringDefault(&c.Metrics.ServiceName, "smartqueue")

	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
	setStringDefault(&c.Tracing.OTLPEndpoint, "localhost:4317")

	setStringDefault(&c.Redis.Addr, "localhost:6379")
	setIntDefault(&c.Redis.TTL, 300)

	setStringDefault(&c.Kafka.Topic, "smartqueue.bookings")

	setIntDefault(&c.SMTP.Port, 25)
	setStringDefault(&c.SMTP.From, "noreply@smartqueue.ai")

	setIntDefault(&c.Booking.MaxTxRetries, 3)

	setIntDefault(&c.Recommender.LookbackDays, 30)
	setIntDefault(&c.Recommender.DefaultLimit, 3)
}

func setIntDefault(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func setStringDefault(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be a valid TCP port (got %d)", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Kafka.Enabled && c.Kafka.Brokers == "" {
		return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}
	if c.SMTP.Enabled && c.SMTP.Host == "" {
		return fmt.Errorf("%w: smtp.host is required when smtp is enabled", ErrInvalidConfig)
	}
	if c.Recommender.LookbackDays < 0 {
		return fmt.Errorf("%w: recommender.lookback_days must not be negative", ErrInvalidConfig)
	}
	return nil
}
