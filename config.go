package routecore

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the ambient settings an App is constructed with. Grounded on
// the teacher's own config.go, which loaded process configuration from a
// .env file via godotenv rather than flags or a dedicated config format.
type Config struct {
	Address        string
	ReadTimeout    int // seconds
	WriteTimeout   int // seconds
	DrainTimeout   int // seconds, graceful shutdown
	DisableHTTP2   bool
	NormalizeCache int // normalization cache capacity, 0 means DefaultCacheCapacity
}

// LoadConfig reads a .env file at path (if present — a missing file is not
// an error, matching godotenv.Load's own behavior of being a no-op
// convenience rather than a hard requirement) and overlays its values onto
// process environment variables, then builds a Config from well-known
// ROUTECORE_* environment variables.
func LoadConfig(path string) (Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Config{}, errInvalidArgument("failed to load env file: " + err.Error())
			}
		}
	}

	cfg := Config{
		Address:      envOr("ROUTECORE_ADDRESS", ":8080"),
		ReadTimeout:  envInt("ROUTECORE_READ_TIMEOUT", 0),
		WriteTimeout: envInt("ROUTECORE_WRITE_TIMEOUT", 0),
		DrainTimeout: envInt("ROUTECORE_DRAIN_TIMEOUT", 15),
		DisableHTTP2: envBool("ROUTECORE_DISABLE_HTTP2", false),
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
