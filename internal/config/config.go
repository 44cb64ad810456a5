package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN is the libpq URL accepted by both the pgx and lib/pq drivers.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

type AnalysisConfig struct {
	PeriodDays int
	TrendWeeks int
}

// Config holds the runtime settings of the API server. Values come from the
// process environment, optionally seeded by a .env file.
type Config struct {
	Port      string
	RateLimit int

	Database DatabaseConfig
	Redis    RedisConfig
	Analysis AnalysisConfig
}

var ErrInvalidConfig = errors.New("invalid configuration")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("rate_limit", 100)

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "")

	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_enabled", true)

	v.SetDefault("analysis_period_days", 28)
	v.SetDefault("trend_weeks", 4)
}

// NewViper returns a viper instance with every key defaulted and bound to
// the upper-case environment variable of the same name.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env files (when present) into the environment, then the
// environment into a Config.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromViper(NewViper())
}

func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:      v.GetString("port"),
		RateLimit: v.GetInt("rate_limit"),
		Database: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis_host"),
			Port:     v.GetString("redis_port"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			Enabled:  v.GetBool("redis_enabled"),
		},
		Analysis: AnalysisConfig{
			PeriodDays: v.GetInt("analysis_period_days"),
			TrendWeeks: v.GetInt("trend_weeks"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: RATE_LIMIT must not be negative", ErrInvalidConfig)
	}
	if c.Analysis.PeriodDays < 0 {
		return fmt.Errorf("%w: ANALYSIS_PERIOD_DAYS must not be negative", ErrInvalidConfig)
	}
	if c.Analysis.TrendWeeks < 1 || c.Analysis.TrendWeeks > 104 {
		return fmt.Errorf("%w: TREND_WEEKS must be between 1 and 104", ErrInvalidConfig)
	}
	return nil
}
