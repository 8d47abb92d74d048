package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	Port           string
	Environment    string   // ENV: production, development, etc.
	Host           string   // Raw HOST env (e.g. https://guestbook.bellaciao.in)
	AllowedHost    string   // Hostname only for strict host check (production only)
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL

	// Admin secret. When AdminPassHash is set it takes precedence over AdminPass.
	AdminPass     string
	AdminPassHash string

	StoreDriver string // postgres or mongo
	PostgresURI string
	MongoURI    string
	RedisURI    string // empty disables the live feed and Redis rate limiting

	Location         *time.Location // day boundary for the "today" filter
	ExportPrefix     string
	DefaultPageLimit int
	MaxPageLimit     int

	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	AdminUIDir string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// AllowedHost is only set in production; host check is skipped in development
	var allowedHost string
	if env == "production" {
		allowedHost = bareHost(host)
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      env,
		Host:             host,
		AllowedHost:      allowedHost,
		AllowedOrigins:   allowedOrigins,
		AdminPass:        os.Getenv("ADMIN_PASS"),
		AdminPassHash:    os.Getenv("ADMIN_PASS_HASH"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		PostgresURI:      getEnv("POSTGRES_URI", "postgres://localhost:5432/bellaciao?sslmode=disable"),
		MongoURI:         getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/bellaciao")),
		RedisURI:         os.Getenv("REDIS_URI"),
		Location:         loadLocation(getEnv("TIMEZONE", "")),
		ExportPrefix:     getEnv("EXPORT_PREFIX", "bella-ciao"),
		DefaultPageLimit: getEnvInt("DEFAULT_PAGE_LIMIT", 20),
		MaxPageLimit:     getEnvInt("MAX_PAGE_LIMIT", 100),
		SubmitRateLimit:  getEnvInt("SUBMIT_RATE_LIMIT", 10),
		SubmitRateWindow: time.Duration(getEnvInt("SUBMIT_RATE_WINDOW_SECONDS", 600)) * time.Second,
		AdminUIDir:       os.Getenv("ADMIN_UI_DIR"),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// HasAdminSecret reports whether any admin secret is configured.
func (c *Config) HasAdminSecret() bool {
	return c.AdminPass != "" || c.AdminPassHash != ""
}

func bareHost(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
