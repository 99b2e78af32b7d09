package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthModeAmbient = "ambient"
	AuthModeToken   = "token"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Admin gate
	AdminSecretKey  string
	AdminAllowedIPs string

	// Caller identity
	AuthMode  string
	JWTSecret string
	JWTExpiry time.Duration

	// Proposal lifecycle
	ProposalStrictTransitions bool

	// Server
	Port           string
	CORSOrigins    string
	TrustedProxies string

	// Logging
	LogRetentionDays int
}

// Load reads .env files when present and then the process environment.
func Load() *Config {
	// Missing files are fine; real deployments set the environment directly.
	_ = godotenv.Load(".env.local", ".env")

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", DriverPostgres),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "kdt_platform"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "kdt.db"),

		AdminSecretKey:  getEnv("ADMIN_SECRET_KEY", ""),
		AdminAllowedIPs: getEnv("ADMIN_ALLOWED_IPS", ""),

		AuthMode:  getEnv("AUTH_MODE", AuthModeAmbient),
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 168*time.Hour),

		ProposalStrictTransitions: parseBool(getEnv("PROPOSAL_STRICT_TRANSITIONS", "false")),

		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		TrustedProxies: getEnv("TRUSTED_PROXIES", ""),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeAmbient:
	case AuthModeToken:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=token")
		}
	default:
		return errors.New("AUTH_MODE must be 'ambient' or 'token'")
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD is required for postgres")
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	default:
		return errors.New("DB_DRIVER must be 'postgres' or 'sqlite'")
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) TokenMode() bool {
	return c.AuthMode == AuthModeToken
}

// TrustedProxyList splits TRUSTED_PROXIES. Empty means proxy headers are ignored.
func (c *Config) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
