package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// SessionLifetime is the fixed lifetime of a login session cookie.
const SessionLifetime = 60 * time.Minute

// Config holds the complete application configuration. All values are
// sourced from the environment; a .env file is honored for local runs.
type Config struct {
	SecretKey        string // session cookie signing key
	MongoURI         string
	CaptchaSecret    string // hCaptcha secret key
	CaptchaURL       string // hCaptcha siteverify endpoint
	CDNKey           string // image host API key
	CDNURL           string // image host upload endpoint
	Port             string
	AutoApprovePosts bool
	Debug            bool
}

// Load reads configuration from environment variables, falling back to a
// .env file when present. SECRET_KEY and MONGODB_URI are required.
func Load() (*Config, error) {
	// Silent failure when no .env exists is fine; env vars take over.
	_ = godotenv.Load()

	cfg := &Config{
		SecretKey:     os.Getenv("SECRET_KEY"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		CaptchaSecret: os.Getenv("CAPTCHA_SECRET_KEY"),
		CaptchaURL:    getEnvOrDefault("CAPTCHA_URL", "https://hcaptcha.com/siteverify"),
		CDNKey:        os.Getenv("CDN_KEY"),
		CDNURL:        getEnvOrDefault("CDN_API", "https://api.imgbb.com/1/upload"),
		Port:          getEnvOrDefault("PORT", "8080"),
		// The public create path force-approves submissions unless this is
		// switched off; pending posts wait for moderation in the admin panel.
		AutoApprovePosts: getEnvOrDefault("AUTO_APPROVE_POSTS", "true") == "true",
		Debug:            os.Getenv("DEBUG") == "true",
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable is required")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
