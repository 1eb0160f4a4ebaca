package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Facebook struct {
	GraphURL       string
	ProbeURL       string
	PublishTimeout time.Duration
	ProbeTimeout   time.Duration
	MaxAttempts    int
	RetryBackoff   time.Duration
	PhaseAttempts  int
}

type Dispatch struct {
	Interval time.Duration
	LockTTL  time.Duration
}

type Gemini struct {
	Model   string
	BaseURL string
}

type Config struct {
	Port               string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	R2                 R2
	Facebook           Facebook
	Dispatch           Dispatch
	Gemini             Gemini
	SecretKey          string
	CookieName         string
	CronSecret         string
}

func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "3000"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Facebook: Facebook{
			GraphURL:       getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com/v21.0"),
			ProbeURL:       getEnv("FACEBOOK_PROBE_URL", "https://graph.facebook.com"),
			PublishTimeout: getEnvDuration("FACEBOOK_PUBLISH_TIMEOUT", 30*time.Second),
			ProbeTimeout:   getEnvDuration("FACEBOOK_PROBE_TIMEOUT", 5*time.Second),
			MaxAttempts:    getEnvInt("FACEBOOK_MAX_ATTEMPTS", 3),
			RetryBackoff:   getEnvDuration("FACEBOOK_RETRY_BACKOFF", 2*time.Second),
			PhaseAttempts:  getEnvInt("FACEBOOK_PHASE_ATTEMPTS", 1),
		},
		Dispatch: Dispatch{
			Interval: getEnvDuration("DISPATCH_INTERVAL", time.Minute),
			LockTTL:  getEnvDuration("DISPATCH_LOCK_TTL", 10*time.Minute),
		},
		Gemini: Gemini{
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "postpilot_session"),
		CronSecret: getEnv("CRON_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}
