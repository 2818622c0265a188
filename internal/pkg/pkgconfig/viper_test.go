package pkgconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewViper_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("NewViper() expected error for missing file")
	}
}

func TestViper_Getters(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
dataset:
  retention:
    max: 5
  upload:
    max_bytes: 1048576
modules:
  dataset:
    enabled: true
auth:
  users: "admin:admin123,viewer:pass"
`)

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper() err = %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetInt("dataset.retention.max"); got != 5 {
		t.Fatalf("GetInt() = %d, want 5", got)
	}
	if !cfg.GetBool("modules.dataset.enabled") {
		t.Fatal("GetBool() = false, want true")
	}
	if got := cfg.GetInt("dataset.upload.max_bytes"); got != 1048576 {
		t.Fatalf("GetInt() = %d, want 1048576", got)
	}

	users := cfg.GetMap("auth.users")
	if users["admin"] != "admin123" || users["viewer"] != "pass" {
		t.Fatalf("GetMap() = %#v", users)
	}
}
