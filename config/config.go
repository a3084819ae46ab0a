package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ecochat-core/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	ServiceToken   string
	AllowedOrigins []string
	Debug          bool

	R2                      utils.R2Config
	RankingSnapshotInterval time.Duration
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.LogWarn("No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "5200"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ServiceToken: os.Getenv("SERVICE_TOKEN"),
		Debug:        strings.EqualFold(os.Getenv("DEBUG"), "true"),
		R2: utils.R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.ServiceToken == "" {
		return nil, fmt.Errorf("SERVICE_TOKEN environment variable not set")
	}

	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"))

	interval, err := time.ParseDuration(getEnv("RANKING_SNAPSHOT_INTERVAL", "10m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid RANKING_SNAPSHOT_INTERVAL: %q", os.Getenv("RANKING_SNAPSHOT_INTERVAL"))
	}
	cfg.RankingSnapshotInterval = interval

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
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
