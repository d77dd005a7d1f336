package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"
)

type Config struct {
	Port string

	// LLM
	UseMockLLM   bool
	GeminiAPIKey string
	GCPProjectID string
	GCPLocation  string
	ModelName    string

	// Storage: "memory", "sqlite" or "firestore"
	StorageBackend string
	DBPath         string
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		UseMockLLM:   getBoolEnv("OTTODOT_USE_MOCK_LLM", false),
		GeminiAPIKey: getEnv("GOOGLE_API_KEY", ""),
		GCPProjectID: getEnv("OTTODOT_GCP_PROJECT", ""),
		GCPLocation:  getEnv("OTTODOT_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("OTTODOT_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("OTTODOT_STORAGE_BACKEND", StorageSQLite),
		DBPath:         getEnv("OTTODOT_DB_PATH", "./data/ottodot.db"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("OTTODOT_DB_PATH is required for the sqlite backend")
		}
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("OTTODOT_GCP_PROJECT is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if !c.UseMockLLM && c.GeminiAPIKey == "" && c.GCPProjectID == "" {
		return fmt.Errorf("set GOOGLE_API_KEY or OTTODOT_GCP_PROJECT (or OTTODOT_USE_MOCK_LLM=1)")
	}
	return nil
}
