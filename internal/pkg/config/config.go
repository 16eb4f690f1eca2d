package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments and have no safe fallback
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

const (
	MailTransportLog      = "log"
	MailTransportSMTP     = "smtp"
	MailTransportSendGrid = "sendgrid"

	ScheduleStoreMemory   = "memory"
	ScheduleStorePostgres = "postgres"
	ScheduleStoreSQLite   = "sqlite"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	Mail      MailConfig
	Scheduler SchedulerConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"3000"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"stock_notifier"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type MailConfig struct {
	Transport     string        `envconfig:"MAIL_TRANSPORT" default:"log"`
	From          string        `envconfig:"MAIL_FROM" default:"no-reply@localhost"`
	Subject       string        `envconfig:"MAIL_SUBJECT" default:"Out of stock products"`
	Timeout       time.Duration `envconfig:"MAIL_TIMEOUT" default:"10s"`
	RatePerSecond float64       `envconfig:"MAIL_RATE_PER_SECOND" default:"5"`
	Burst         int           `envconfig:"MAIL_RATE_BURST" default:"5"`

	// consecutive failures before the breaker opens, and how long it stays open
	BreakerFailures uint32        `envconfig:"MAIL_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"MAIL_BREAKER_TIMEOUT" default:"30s"`

	SMTP     SMTPConfig
	SendGrid SendGridConfig
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     string `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME" default:""`
	Password string `envconfig:"SMTP_PASSWORD" default:""`
}

type SendGridConfig struct {
	APIKey  string `envconfig:"SENDGRID_API_KEY" default:""`
	BaseURL string `envconfig:"SENDGRID_BASE_URL" default:"https://api.sendgrid.com"`
}

type SchedulerConfig struct {
	Store      string        `envconfig:"SCHEDULE_STORE" default:"memory"`
	SQLitePath string        `envconfig:"SCHEDULE_SQLITE_PATH" default:"schedules.db"`
	TimeZone   string        `envconfig:"SCHEDULE_TIMEZONE" default:"UTC"`
	LockTTL    time.Duration `envconfig:"SCHEDULE_LOCK_TTL" default:"55s"`
}

type RedisConfig struct {
	// empty disables the distributed firing lock
	URL string `envconfig:"REDIS_URL" default:""`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c Config) Validate() error {
	switch c.Mail.Transport {
	case MailTransportLog:
	case MailTransportSMTP:
		if strings.TrimSpace(c.Mail.SMTP.Host) == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_TRANSPORT=%s", MailTransportSMTP)
		}
	case MailTransportSendGrid:
		if strings.TrimSpace(c.Mail.SendGrid.APIKey) == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required when MAIL_TRANSPORT=%s", MailTransportSendGrid)
		}
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.Mail.Transport)
	}

	switch c.Scheduler.Store {
	case ScheduleStoreMemory, ScheduleStorePostgres:
	case ScheduleStoreSQLite:
		if strings.TrimSpace(c.Scheduler.SQLitePath) == "" {
			return fmt.Errorf("SCHEDULE_SQLITE_PATH is required when SCHEDULE_STORE=%s", ScheduleStoreSQLite)
		}
	default:
		return fmt.Errorf("unknown SCHEDULE_STORE %q", c.Scheduler.Store)
	}

	if _, err := c.Scheduler.Location(); err != nil {
		return err
	}
	if c.Mail.RatePerSecond <= 0 {
		return fmt.Errorf("MAIL_RATE_PER_SECOND must be > 0")
	}
	return nil
}

func LoadConfig() (Config, error) {
	// missing .env is fine; existing environment variables win
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,
		},
		CORS: CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Mail: MailConfig{
			Transport:       MailTransportLog,
			From:            "no-reply@example.com",
			Subject:         "Out of stock products",
			Timeout:         2 * time.Second,
			RatePerSecond:   100,
			Burst:           100,
			BreakerFailures: 5,
			BreakerTimeout:  time.Second,
		},
		Scheduler: SchedulerConfig{
			Store:    ScheduleStoreMemory,
			TimeZone: "UTC",
			LockTTL:  55 * time.Second,
		},
	}
}
