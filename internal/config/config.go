package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort     string `yaml:"app_port"`
	Environment string `yaml:"environment"`

	DBDriver   string `yaml:"db_driver"`
	SQLitePath string `yaml:"sqlite_path"`
	MySQLHost  string `yaml:"mysql_host"`
	MySQLPort  string `yaml:"mysql_port"`
	MySQLDB    string `yaml:"mysql_db"`
	MySQLUser  string `yaml:"mysql_user"`
	MySQLPass  string `yaml:"mysql_pass"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	IdempTTLSecs int    `yaml:"idempotency_ttl_seconds"`
	JWTSecret    string `yaml:"jwt_secret"`
	// lifetime of tokens re-issued through X-New-Token
	TokenTTLHours int `yaml:"token_ttl_hours"`

	Log     LogConfig     `yaml:"log"`
	Lending LendingConfig `yaml:"lending"`
	Jobs    JobsConfig    `yaml:"jobs"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type LendingConfig struct {
	InterestRatePercent float64 `yaml:"interest_rate_percent"`
	SavingsMultiplier   int64   `yaml:"savings_multiplier"`
	GracePeriodDays     int     `yaml:"grace_period_days"`
	FineRatePercent     float64 `yaml:"fine_rate_percent"`
	DormantAfterDays    int     `yaml:"dormant_after_days"`
}

func (l LendingConfig) InterestRate() decimal.Decimal {
	return decimal.NewFromFloat(l.InterestRatePercent)
}

func (l LendingConfig) FineRate() decimal.Decimal { return decimal.NewFromFloat(l.FineRatePercent) }

func (l LendingConfig) GracePeriod() time.Duration {
	return time.Duration(l.GracePeriodDays) * 24 * time.Hour
}

func (l LendingConfig) DormantAfter() time.Duration {
	return time.Duration(l.DormantAfterDays) * 24 * time.Hour
}

type JobsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	FineSpec     string `yaml:"fine_spec"`
	DormancySpec string `yaml:"dormancy_spec"`
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envString(dst *string, k string) {
	if v := os.Getenv(k); v != "" {
		*dst = v
	}
}

func envInt(dst *int, k string) {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envInt64(dst *int64, k string) {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, k string) {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(dst *bool, k string) {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func defaults() *Config {
	return &Config{
		AppPort:     "8080",
		Environment: "development",
		DBDriver:    "mysql",
		SQLitePath:  "coop.db",
		MySQLHost:   "mysql",
		MySQLPort:   "3306",
		MySQLDB:     "coop",
		MySQLUser:   "coop",
		MySQLPass:   "coop",

		RedisAddr:     "redis:6379",
		IdempTTLSecs:  300,
		TokenTTLHours: 168,

		Log: LogConfig{Level: "info", MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Lending: LendingConfig{
			InterestRatePercent: 5,
			SavingsMultiplier:   0,
			GracePeriodDays:     3,
			FineRatePercent:     10,
			DormantAfterDays:    21,
		},
		Jobs: JobsConfig{Enabled: true, FineSpec: "0 6 * * *", DormancySpec: "30 6 * * *"},
	}
}

// Load layers configuration: defaults, then CONFIG_FILE (YAML), then environment.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	envString(&c.AppPort, "APP_PORT")
	envString(&c.Environment, "ENVIRONMENT")
	envString(&c.DBDriver, "DB_DRIVER")
	envString(&c.SQLitePath, "SQLITE_PATH")
	envString(&c.MySQLHost, "MYSQL_HOST")
	envString(&c.MySQLPort, "MYSQL_PORT")
	envString(&c.MySQLDB, "MYSQL_DB")
	envString(&c.MySQLUser, "MYSQL_USER")
	envString(&c.MySQLPass, "MYSQL_PASS")
	envString(&c.RedisAddr, "REDIS_ADDR")
	envString(&c.RedisPassword, "REDIS_PASSWORD")
	envInt(&c.RedisDB, "REDIS_DB")
	envInt(&c.IdempTTLSecs, "IDEMPOTENCY_TTL_SECONDS")
	envString(&c.JWTSecret, "JWT_SECRET")
	envInt(&c.TokenTTLHours, "TOKEN_TTL_HOURS")

	envString(&c.Log.Level, "LOG_LEVEL")
	envString(&c.Log.File, "LOG_FILE")

	envFloat(&c.Lending.InterestRatePercent, "INTEREST_RATE_PERCENT")
	envInt64(&c.Lending.SavingsMultiplier, "SAVINGS_MULTIPLIER")
	envInt(&c.Lending.GracePeriodDays, "GRACE_PERIOD_DAYS")
	envFloat(&c.Lending.FineRatePercent, "FINE_RATE_PERCENT")
	envInt(&c.Lending.DormantAfterDays, "DORMANT_AFTER_DAYS")

	envBool(&c.Jobs.Enabled, "JOBS_ENABLED")
	envString(&c.Jobs.FineSpec, "FINE_CRON_SPEC")
	envString(&c.Jobs.DormancySpec, "DORMANCY_CRON_SPEC")

	c.Environment = strings.ToLower(c.Environment)
	c.DBDriver = strings.ToLower(getenv("DB_DRIVER", c.DBDriver))
	return c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTLHours <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	l := c.Lending
	if l.InterestRatePercent < 0 || l.FineRatePercent < 0 {
		return errors.New("interest and fine rates must not be negative")
	}
	if l.SavingsMultiplier < 0 {
		return errors.New("SAVINGS_MULTIPLIER must be >= 0 (0 disables the cap)")
	}
	if l.GracePeriodDays < 0 || l.DormantAfterDays <= 0 {
		return errors.New("GRACE_PERIOD_DAYS must be >= 0 and DORMANT_AFTER_DAYS > 0")
	}
	if c.Jobs.Enabled {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		for name, spec := range map[string]string{"FINE_CRON_SPEC": c.Jobs.FineSpec, "DORMANCY_CRON_SPEC": c.Jobs.DormancySpec} {
			if _, err := parser.Parse(spec); err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, spec, err)
			}
		}
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}
