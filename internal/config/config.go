/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mikeb26/pdxsched/internal"
)

type Config struct {
	BaseURL        string
	Workers        int
	FetchTimeout   time.Duration
	OutputDir      string
	BadLinesPath   string
	CacheBucket    string
	CacheTTL       time.Duration
	ArchiveBucket  string
	DiscordWebhook string
	AppURL         string
	LogLevel       string
}

// Load reads envFiles (".env" when none are given; missing files are not an
// error) and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: loading %v: %w", f, err)
		}
	}

	cfg := &Config{
		BaseURL:        getEnv("PDXSCHED_BASE_URL", internal.ScheduleBaseURL),
		OutputDir:      getEnv("PDXSCHED_OUTPUT_DIR", "."),
		BadLinesPath:   getEnv("PDXSCHED_BAD_LINES", internal.BadLinesFile),
		CacheBucket:    getEnv("PDXSCHED_CACHE_BUCKET", ""),
		ArchiveBucket:  getEnv("PDXSCHED_ARCHIVE_BUCKET", ""),
		DiscordWebhook: getEnv("PDXSCHED_DISCORD_WEBHOOK", ""),
		AppURL:         getEnv("APP_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.Workers, err = getEnvInt("PDXSCHED_WORKERS", internal.DefaultWorkers)
	if err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("config: PDXSCHED_WORKERS must be at least 1, got %d",
			cfg.Workers)
	}
	cfg.FetchTimeout, err = getEnvDuration("PDXSCHED_FETCH_TIMEOUT",
		internal.DefaultFetchTimeout)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL, err = getEnvDuration("PDXSCHED_CACHE_TTL", internal.DefaultCacheTTL)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %v %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %v %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %v must be positive, got %v", key, d)
	}
	return d, nil
}
