package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Таймзона салона не должна зависеть от образа

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var (
	// ErrLoadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrLoadConfig = errors.New("config: failed to load")

	// ErrInvalidConfig возвращается при некорректных значениях
	ErrInvalidConfig = errors.New("config: invalid value")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Booking  BookingConfig  `toml:"booking"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища: postgres или memory (локальный запуск без БД)
type StorageConfig struct {
	Driver string `toml:"driver"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"` // секунды
}

type CatalogConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type BookingConfig struct {
	Timezone                string `toml:"timezone"`
	SlotStepMinutes         int    `toml:"slot_step_minutes"`
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes"`
	AdvanceBookingDays      int    `toml:"advance_booking_days"`
	ReadRetryAttempts       int    `toml:"read_retry_attempts"`
	ReadRetryIntervalMs     int    `toml:"read_retry_interval_ms"`
}

// Location локация салона, все времена хранятся в ней
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, b.Timezone, err)
	}
	return loc, nil
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

// Load читает TOML файл, затем .env и переменные окружения поверх него
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}

	// .env необязателен, отсутствие файла не ошибка
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrLoadConfig, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Redis:   RedisConfig{TTL: 300},
		Kafka: KafkaConfig{
			Topic:        "salon.appointments",
			WriteTimeout: 5,
		},
		Catalog: CatalogConfig{Timeout: 5},
		Booking: BookingConfig{
			SlotStepMinutes:         domain.DefaultSlotStepMinutes,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
			ReadRetryAttempts:       3,
			ReadRetryIntervalMs:     50,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-scheduler",
		},
	}
}

// applyEnv переопределяет адреса и секреты из окружения
func applyEnv(cfg *Config) error {
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Catalog.URL, "CATALOG_URL")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.Booking.Timezone, "SALON_TIMEZONE")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}

	if err := setInt(&cfg.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	return setInt(&cfg.Server.HTTPPort, "HTTP_PORT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("%w: storage.driver must be %q or %q", ErrInvalidConfig, StorageDriverPostgres, StorageDriverMemory)
	}

	if c.Catalog.URL == "" {
		return fmt.Errorf("%w: catalog.url is required", ErrInvalidConfig)
	}

	b := c.Booking
	if b.SlotStepMinutes < domain.MinSlotStepMinutes || b.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: booking.slot_step_minutes must be between %d and %d",
			ErrInvalidConfig, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if b.MinBookingNoticeMinutes < 0 || b.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: booking.min_booking_notice_minutes out of range", ErrInvalidConfig)
	}
	if b.AdvanceBookingDays < 0 || b.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: booking.advance_booking_days out of range", ErrInvalidConfig)
	}
	if b.ReadRetryAttempts < 1 {
		return fmt.Errorf("%w: booking.read_retry_attempts must be at least 1", ErrInvalidConfig)
	}
	if _, err := b.Location(); err != nil {
		return err
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("%w: kafka.brokers and kafka.topic are required when kafka is enabled", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}

	return nil
}
