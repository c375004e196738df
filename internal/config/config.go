package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnv            = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultDBPath         = "./dev.db"
	defaultEstimatesFile  = "./estimates.json"
	defaultEstimatesTable = "estimates"
	defaultAWSRegion      = "us-east-1"
	defaultRequestTimeout = 15 * time.Second
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env      string
	Port     string
	LogLevel string
	APIKey   string

	StoreBackend   string
	DBPath         string
	EstimatesFile  string
	EstimatesTable string
	AWSRegion      string
	DynamoEndpoint string

	// CatalogVersion selects the active rate catalog; empty means the default.
	CatalogVersion string
	// CatalogFile, when set, loads the active catalog from a JSON document.
	CatalogFile string

	RequestTimeout time.Duration
}

// Load reads a .env file if present, then the environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. Variables already set in the
// environment win over the file.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := Config{
		Env:            getenv("APP_ENV", defaultEnv),
		Port:           getenv("PORT", defaultPort),
		LogLevel:       getenv("LOG_LEVEL", defaultLogLevel),
		APIKey:         os.Getenv("API_KEY"),
		StoreBackend:   strings.ToLower(getenv("STORE_BACKEND", BackendSQLite)),
		DBPath:         getenv("DB_PATH", defaultDBPath),
		EstimatesFile:  getenv("ESTIMATES_FILE", defaultEstimatesFile),
		EstimatesTable: getenv("ESTIMATES_TABLE", defaultEstimatesTable),
		AWSRegion:      getenv("AWS_REGION", defaultAWSRegion),
		DynamoEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		CatalogVersion: os.Getenv("CATALOG_VERSION"),
		CatalogFile:    os.Getenv("CATALOG_FILE"),
		RequestTimeout: defaultRequestTimeout,
	}

	switch cfg.StoreBackend {
	case BackendSQLite, BackendFile, BackendDynamoDB:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend)
	}

	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("REQUEST_TIMEOUT: invalid duration %q", raw)
		}
		cfg.RequestTimeout = d
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Warnings lists settings that are allowed but probably unintended.
func (c Config) Warnings() []string {
	var out []string
	if c.APIKey == "" {
		out = append(out, "API_KEY is not set; estimate endpoints are unauthenticated")
	}
	if c.CatalogFile != "" && c.CatalogVersion != "" {
		out = append(out, "CATALOG_FILE is set; CATALOG_VERSION is ignored")
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
