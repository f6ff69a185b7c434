package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Player catalog
	CatalogSource string `mapstructure:"CATALOG_SOURCE"` // "csv", "database"
	CatalogPath   string `mapstructure:"CATALOG_PATH"`

	// Database
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"` // "postgres", "sqlite"
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	// Classifier artifact
	ModelPath string `mapstructure:"MODEL_PATH"`

	// Sessions
	SessionStore         string        `mapstructure:"SESSION_STORE"` // "memory", "redis"
	RedisURL             string        `mapstructure:"REDIS_URL"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`

	// Game
	MaxQueryAttempts   int    `mapstructure:"MAX_QUERY_ATTEMPTS"`
	WinnerScoreMin     int    `mapstructure:"WINNER_SCORE_MIN"`
	WinnerScoreMax     int    `mapstructure:"WINNER_SCORE_MAX"`
	LoserScoreMin      int    `mapstructure:"LOSER_SCORE_MIN"`
	LoserScoreMax      int    `mapstructure:"LOSER_SCORE_MAX"`
	DefaultWinnerScore int    `mapstructure:"DEFAULT_WINNER_SCORE"`
	DefaultLoserScore  int    `mapstructure:"DEFAULT_LOSER_SCORE"`
	DefaultDifficulty  string `mapstructure:"DEFAULT_DIFFICULTY"`
	DifficultyFile     string `mapstructure:"DIFFICULTY_FILE"`

	// HTTP
	CorsOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	setDefaults(v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")

	v.SetDefault("CATALOG_SOURCE", "csv")
	v.SetDefault("CATALOG_PATH", "data/players.csv")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "data/hoops.db")
	v.SetDefault("MODEL_PATH", "data/winner.json")

	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "5m")

	v.SetDefault("MAX_QUERY_ATTEMPTS", 10)
	v.SetDefault("WINNER_SCORE_MIN", 90)
	v.SetDefault("WINNER_SCORE_MAX", 130)
	v.SetDefault("LOSER_SCORE_MIN", 80)
	v.SetDefault("LOSER_SCORE_MAX", 120)
	v.SetDefault("DEFAULT_WINNER_SCORE", 100)
	v.SetDefault("DEFAULT_LOSER_SCORE", 90)
	v.SetDefault("DEFAULT_DIFFICULTY", "Regular")
	v.SetDefault("DIFFICULTY_FILE", "")

	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
}

// Validate rejects settings the game engine cannot run with.
func (c *Config) Validate() error {
	if c.MaxQueryAttempts <= 0 {
		return fmt.Errorf("MAX_QUERY_ATTEMPTS must be positive, got %d", c.MaxQueryAttempts)
	}
	if c.WinnerScoreMin > c.WinnerScoreMax {
		return fmt.Errorf("winner score range is inverted: %d > %d", c.WinnerScoreMin, c.WinnerScoreMax)
	}
	if c.LoserScoreMin > c.LoserScoreMax {
		return fmt.Errorf("loser score range is inverted: %d > %d", c.LoserScoreMin, c.LoserScoreMax)
	}
	if c.DefaultWinnerScore <= c.DefaultLoserScore {
		return fmt.Errorf("default winner score %d must exceed default loser score %d",
			c.DefaultWinnerScore, c.DefaultLoserScore)
	}
	switch c.CatalogSource {
	case "csv", "database":
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
