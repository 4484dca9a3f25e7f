// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// NOTE: Default port is 8111 to avoid conflicts with other local projects.
const (
	DefaultPort              = "8111"
	DefaultMaxFileSizeMB     = 50
	DefaultImportConcurrency = 4
)

var defaultAllowedOrigins = []string{
	"http://localhost:1234",
	"http://127.0.0.1:1234",
	"http://localhost:3000",
}

// Config holds every runtime setting.
type Config struct {
	Port              string
	LogLevel          string
	LogFormat         string
	MaxFileSizeMB     int64
	ImportConcurrency int
	AllowedOrigins    []string

	// SeedDir, when set, is imported as SeedDomain at startup.
	SeedDir    string
	SeedDomain string

	GCSCredentialsFile string
	GCSEndpoint        string
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (c Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB << 20
}

// Load reads envFiles (missing files are ignored) and then the process
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:               getEnv("PORT", DefaultPort),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		SeedDir:            os.Getenv("SEED_DIR"),
		SeedDomain:         getEnv("SEED_DOMAIN", "financial"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
		GCSEndpoint:        os.Getenv("GCS_ENDPOINT"),
		AllowedOrigins:     defaultAllowedOrigins,
	}

	var err error
	if cfg.MaxFileSizeMB, err = getInt64("MAX_FILE_SIZE_MB", DefaultMaxFileSizeMB); err != nil {
		return Config{}, err
	}
	concurrency, err := getInt64("IMPORT_CONCURRENCY", DefaultImportConcurrency)
	if err != nil {
		return Config{}, err
	}
	cfg.ImportConcurrency = int(concurrency)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", c.MaxFileSizeMB)
	}
	if c.ImportConcurrency <= 0 {
		return fmt.Errorf("IMPORT_CONCURRENCY must be positive, got %d", c.ImportConcurrency)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
