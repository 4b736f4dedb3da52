package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Stripe  StripeConfig
	Booking BookingConfig
	Notify  NotifyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=booking_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type StripeConfig struct {
	APIKey string `env:"STRIPE_API_KEY"`
	// BaseURL overrides the gateway endpoint; leave empty for production.
	BaseURL  string `env:"STRIPE_BASE_URL"`
	Currency string `env:"STRIPE_CURRENCY, default=usd"`
}

type BookingConfig struct {
	PageSize int `env:"BOOKING_PAGE_SIZE, default=10"`
	// RejectOverlap turns on the double-booking check for a space's time
	// windows. Off by default: historically concurrent bookings of the
	// same window have been allowed.
	RejectOverlap bool `env:"BOOKING_REJECT_OVERLAP, default=false"`
}

type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
