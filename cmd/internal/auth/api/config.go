package authapi

import (
	"os"
	"strconv"
	"strings"
)

const defaultMaxBodyBytes int64 = 1 << 20 // 1 MiB

// Config controls auth API request handling.
type Config struct {
	MaxBodyBytes int64
}

// LoadConfigFromEnv loads auth API config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	return Config{
		MaxBodyBytes: envInt64("SNS_API_MAX_BODY_BYTES", defaultMaxBodyBytes),
	}
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
