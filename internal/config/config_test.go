package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"APP_ENV", "PORT", "LOG_LEVEL", "API_KEY", "STORE_BACKEND", "DB_PATH",
	"ESTIMATES_FILE", "ESTIMATES_TABLE", "AWS_REGION", "DYNAMODB_ENDPOINT",
	"CATALOG_VERSION", "CATALOG_FILE", "REQUEST_TIMEOUT",
}

// clearEnv unsets every config key for the test; godotenv only fills unset
// variables, so an empty value would shadow the file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreBackend != BackendSQLite || cfg.DBPath != "./dev.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RequestTimeout != 15*time.Second || !cfg.IsDev() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Warnings()) != 1 {
		t.Fatalf("expected API_KEY warning, got %v", cfg.Warnings())
	}
}

func TestLoadFile_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	path := writeDotEnv(t, `
# comment

APP_ENV=production
export PORT=9090
API_KEY="s3cret"
STORE_BACKEND=DynamoDB
ESTIMATES_TABLE='quotes'
REQUEST_TIMEOUT=3s
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.IsDev() || cfg.Port != "9090" || cfg.APIKey != "s3cret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.StoreBackend != BackendDynamoDB || cfg.EstimatesTable != "quotes" || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadFile_DoesNotOverwriteExistingEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	path := writeDotEnv(t, "PORT=9090\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "7000")
	}
}

func TestLoadFile_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STORE_BACKEND":   "postgres",
		"REQUEST_TIMEOUT": "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestWarnings_CatalogFileOverridesVersion(t *testing.T) {
	cfg := Config{APIKey: "k", CatalogFile: "rates.json", CatalogVersion: "2024.1"}
	if w := cfg.Warnings(); len(w) != 1 {
		t.Fatalf("expected one warning, got %v", w)
	}
}
