package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("ELD_MAX_FIELD_DESC_COUNT")
	os.Unsetenv("ELD_FILE_PERM")
	os.Unsetenv("ELD_LOG_LEVEL")

	cfg := Load()
	if cfg.MaxFieldDescCount != 255 {
		t.Errorf("MaxFieldDescCount = %d, want 255", cfg.MaxFieldDescCount)
	}
	if cfg.FilePerm != 0644 {
		t.Errorf("FilePerm = %o, want 0644", cfg.FilePerm)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("ELD_MAX_FIELD_DESC_COUNT", "10")
	os.Setenv("ELD_FILE_PERM", "0600")
	os.Setenv("ELD_LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("ELD_MAX_FIELD_DESC_COUNT")
		os.Unsetenv("ELD_FILE_PERM")
		os.Unsetenv("ELD_LOG_LEVEL")
	}()

	cfg := Load()
	if cfg.MaxFieldDescCount != 10 {
		t.Errorf("MaxFieldDescCount = %d, want 10", cfg.MaxFieldDescCount)
	}
	if cfg.FilePerm != 0600 {
		t.Errorf("FilePerm = %o, want 0600", cfg.FilePerm)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}
