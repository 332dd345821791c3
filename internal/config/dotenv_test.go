package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetenv clears key for the duration of the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoadDotEnv_FillsUnsetAndKeepsExisting(t *testing.T) {
	t.Setenv("DB_PATH", "/data/live.db")
	unsetenv(t, "PORT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DB_PATH=./local.db\nPORT=9000\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("DB_PATH"); got != "/data/live.db" {
		t.Fatalf("DB_PATH=%q, want %q", got, "/data/live.db")
	}
	if got := os.Getenv("PORT"); got != "9000" {
		t.Fatalf("PORT=%q, want %q", got, "9000")
	}
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("loadDotEnv on missing file: %v", err)
	}
}
