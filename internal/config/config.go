// Package config reads process configuration from the environment.
// main loads .env first (godotenv), so both sources end up here.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // none | starttls | tls
	SkipVerifyTLS bool
	From          string
	FromName      string
}

// Enabled reports whether a relay host is configured.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// StorageConfig selects where uploaded avatars go.
type StorageConfig struct {
	Driver          string // local | s3
	LocalDir        string
	LocalURLPrefix  string
	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
}

type Config struct {
	HTTPAddr     string
	DBDSN        string
	AppSecret    string
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	CORSOrigins  []string

	CartPersist string // none | redis
	RedisURL    string
	CartTTL     time.Duration

	OrderStore string // mysql | mongo
	MongoURI   string
	MongoDB    string

	SMTP    SMTPConfig
	Storage StorageConfig

	CheckoutDelay time.Duration
	LogLevel      slog.Level
}

func Load() (Config, error) {
	var errs []error

	c := Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		DBDSN:       os.Getenv("DB_DSN"),
		AppSecret:   envOr("APP_SECRET", "dev-secret-change-me"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(envOr("CORS_ORIGINS", "http://localhost:5173")),
		CartPersist: strings.ToLower(envOr("CART_PERSIST", "none")),
		RedisURL:    envOr("REDIS_URL", "redis://localhost:6379/0"),
		OrderStore:  strings.ToLower(envOr("ORDER_STORE", "mysql")),
		MongoURI:    envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     envOr("MONGO_DB", "glamup"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envOr("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Pass:     os.Getenv("SMTP_PASS"),
			TLSMode:  strings.ToLower(envOr("SMTP_TLS_MODE", "starttls")),
			From:     envOr("EMAIL_FROM", "orders@glamup.local"),
			FromName: envOr("EMAIL_FROM_NAME", "GlamUp"),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(envOr("STORAGE_DRIVER", "local")),
			LocalDir:        envOr("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLPrefix:  envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:        os.Getenv("S3_REGION"),
			S3Bucket:        os.Getenv("S3_BUCKET"),
			S3Prefix:        envOr("S3_PREFIX", "uploads"),
			S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}
	if c.JWTSecret == "" {
		c.JWTSecret = c.AppSecret
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}

	var err error
	if c.SessionTTL, err = durationEnv("SESSION_TTL", 7*24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if c.CartTTL, err = durationEnv("CART_TTL", 30*24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if c.CheckoutDelay, err = durationEnv("CHECKOUT_DELAY", 0); err != nil {
		errs = append(errs, err)
	}
	if c.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		errs = append(errs, err)
	}
	if c.SMTP.SkipVerifyTLS, err = boolEnv("SMTP_SKIP_VERIFY", false); err != nil {
		errs = append(errs, err)
	}
	if err = c.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch c.CartPersist {
	case "none", "redis":
	default:
		errs = append(errs, fmt.Errorf("CART_PERSIST: unsupported value %q", c.CartPersist))
	}
	switch c.OrderStore {
	case "mysql", "mongo":
	default:
		errs = append(errs, fmt.Errorf("ORDER_STORE: unsupported value %q", c.OrderStore))
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Region == "" || c.Storage.S3Bucket == "" || c.Storage.S3PublicBaseURL == "" {
			errs = append(errs, errors.New("STORAGE_DRIVER=s3 requires S3_REGION, S3_BUCKET and S3_PUBLIC_BASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER: unsupported value %q", c.Storage.Driver))
	}

	return c, errors.Join(errs...)
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", k)
	}
	return d, nil
}

func boolEnv(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
