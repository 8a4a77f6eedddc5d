package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Collab    CollabConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// CollabConfig carries the protocol knobs (poll cadence, edit debounce,
// presence TTL) plus the seed document. PollInterval and EditDebounce
// are client policy; the server serves them on /config so clients never
// hard-code them.
type CollabConfig struct {
	SeedContent  string
	PresenceTTL  time.Duration
	PollInterval time.Duration
	EditDebounce time.Duration
}

const defaultSeedContent = "Welcome to the Collaborative Editor!\n\n" +
	"Start typing to see real-time collaboration in action. Multiple users can edit this document simultaneously.\n\n" +
	"Try opening this page in multiple browser tabs to simulate different users editing together."

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("RATE_LIMIT_RPS", 50.0)
	viper.SetDefault("RATE_LIMIT_BURST", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("SEED_CONTENT", defaultSeedContent)
	viper.SetDefault("PRESENCE_TTL_SECONDS", 30)
	viper.SetDefault("POLL_INTERVAL_MS", 1000)
	viper.SetDefault("EDIT_DEBOUNCE_MS", 1000)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Collab: CollabConfig{
			SeedContent:  viper.GetString("SEED_CONTENT"),
			PresenceTTL:  time.Duration(viper.GetInt("PRESENCE_TTL_SECONDS")) * time.Second,
			PollInterval: time.Duration(viper.GetInt("POLL_INTERVAL_MS")) * time.Millisecond,
			EditDebounce: time.Duration(viper.GetInt("EDIT_DEBOUNCE_MS")) * time.Millisecond,
		},
	}

	return cfg, nil
}
