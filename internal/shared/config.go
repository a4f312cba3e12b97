package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	StorageDriver  string
	MySQLDSN       string
	ViewMode       string
	DefaultUserID  string
	JWTSecret      string
	AuthRequired   bool
	CORSOrigins    []string
	RequestTimeout time.Duration
	CatalogBase    string
	CatalogKey     string
	CatalogFile    string
	CatalogRPS     int
	Workers        int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":4000"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		StorageDriver:  strings.ToLower(env("STORAGE_DRIVER", "mysql")),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/travel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		ViewMode:       strings.ToLower(env("VIEW_MODE", "auto")),
		DefaultUserID:  env("DEFAULT_USER_ID", "default_user"),
		JWTSecret:      env("JWT_SECRET", ""),
		AuthRequired:   envBool("AUTH_REQUIRED", false),
		CORSOrigins:    splitList(env("CORS_ORIGINS", "*")),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		CatalogBase:    env("CATALOG_BASE_URL", ""),
		CatalogKey:     env("CATALOG_API_KEY", ""),
		CatalogFile:    env("CATALOG_FILE", ""),
		CatalogRPS:     atoi("CATALOG_RPS", 5),
		Workers:        atoi("SEED_WORKERS", 8),
	}
	if c.AuthRequired && c.JWTSecret == "" {
		log.Warn().Msg("AUTH_REQUIRED is set but JWT_SECRET is empty; every request will be rejected")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
