package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	ImageDir       string
	MaxUploadMB    int64
	AuthRateLimit  int
	AuthRateWindow time.Duration
	S3Bucket       string
	S3Region       string
	S3AccessKeyID  string
	S3SecretKey    string
}

func Load() (*Config, error) {
	maxMB := int64(10)
	if v := getEnv("MAX_UPLOAD_MB", ""); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}
	rateLimit := 20
	if v := getEnv("AUTH_RATE_LIMIT", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}
	rateWindow := time.Minute
	if v := getEnv("AUTH_RATE_WINDOW_SECONDS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateWindow = time.Duration(n) * time.Second
		}
	}

	cfg := &Config{
		Port:           getEnv("PORT", "4000"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("MONGODB_DB", "bookgrove"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		ImageDir:       getEnv("IMAGE_DIR", "./images"),
		MaxUploadMB:    maxMB,
		AuthRateLimit:  rateLimit,
		AuthRateWindow: rateWindow,
		S3Bucket:       getEnv("AWS_S3_BUCKET", ""),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
