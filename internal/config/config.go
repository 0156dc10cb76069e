// internal/config/config.go
//
// Runtime configuration for the play server, read from the environment.
// main loads a `.env` file first (godotenv), so values there act as defaults.
// Invalid values are logged and replaced by the fallback.

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config bundles every setting the server reads at startup.
type Config struct {
	Port            string
	LogLevel        string
	ClientOrigin    string        // single CORS origin allowed with credentials
	Production      bool          // NODE_ENV=production: secure cookies
	TicketSecret    string        // HS256 key for play tickets
	TicketTTL       time.Duration // lifetime of a play ticket
	TicketCookie    string        // cookie carrying the ticket
	RateLimitRPS    int           // ticket issuance per client IP
	RateLimitBurst  int
	ShutdownTimeout time.Duration
}

// LoadDotEnv loads .env if present; a missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env")
	}
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:            GetEnv("PORT", "5175"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		ClientOrigin:    GetEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:      os.Getenv("NODE_ENV") == "production",
		TicketSecret:    GetEnv("TICKET_SECRET", "dev_secret_change_me"),
		TicketTTL:       GetEnvDuration("TICKET_TTL", 2*time.Hour),
		TicketCookie:    GetEnv("TICKET_COOKIE", "typing_ticket"),
		RateLimitRPS:    GetEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  GetEnvInt("RATE_LIMIT_BURST", 10),
		ShutdownTimeout: GetEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// GetEnv returns the value of k or def if unset/empty.
func GetEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// GetEnvInt reads an int from the environment or returns a fallback.
func GetEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Int("default", fallback).Msg("invalid int in environment")
		return fallback
	}
	return i
}

// GetEnvDuration reads a time.Duration from the environment or returns a fallback.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Dur("default", fallback).Msg("invalid duration in environment")
		return fallback
	}
	return d
}
