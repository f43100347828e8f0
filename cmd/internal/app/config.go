package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int

	// Empty DatabaseURL runs the service on in-memory stores.
	DatabaseURL      string
	DBMaxConns       int32
	DBMinConns       int32
	DBConnectTimeout time.Duration
	MigrateOnStart   bool

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// If true, JWT_SECRET must be at least 32 bytes.
	RequireStrongJWTSecret bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	port := EnvString("APP_PORT", "5656")

	return Config{
		HTTPAddr:  EnvString("SNS_HTTP_ADDR", "0.0.0.0:"+port),
		LogLevel:  EnvString("SNS_LOG_LEVEL", "info"),
		LogFormat: EnvString("SNS_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("SNS_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("SNS_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("SNS_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("SNS_HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   EnvDuration("SNS_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		MaxHeaderBytes: EnvInt("SNS_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL:      EnvString("DATABASE_URL", ""),
		DBMaxConns:       EnvInt32("SNS_DB_MAX_CONNS", 10),
		DBMinConns:       EnvInt32("SNS_DB_MIN_CONNS", 0),
		DBConnectTimeout: EnvDuration("SNS_DB_CONNECT_TIMEOUT", 30*time.Second),
		MigrateOnStart:   EnvBool("SNS_MIGRATE_ON_START", false),

		ReadinessRequireDB: EnvBool("SNS_READINESS_REQUIRE_DB", false),

		CORSAllowedOrigins:   EnvStringList("SNS_CORS_ALLOWED_ORIGINS"),
		CORSAllowCredentials: EnvBool("SNS_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("SNS_CORS_MAX_AGE", 600),

		RequireStrongJWTSecret: EnvBool("SNS_REQUIRE_STRONG_JWT_SECRET", false),
	}
}
