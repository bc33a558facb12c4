package rasterd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg.Server.Addr != want.Server.Addr || cfg.Render.LineSpacing != want.Render.LineSpacing {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Fatalf("write timeout = %v", cfg.Server.WriteTimeout)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rasterd.yaml")
	content := "server:\n  addr: \"0.0.0.0:9000\"\n  read_timeout: 3s\nrender:\n  line_spacing: 1.5\ncors:\n  allowed_origins:\n    - https://example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CHATSHOT_RASTERD_RENDER_MAX_LINES", "12")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:9000" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Render.LineSpacing != 1.5 || cfg.Render.MaxLines != 12 {
		t.Fatalf("render = %+v", cfg.Render)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://example.com" {
		t.Fatalf("cors = %+v", cfg.CORS)
	}
	if cfg.Render.DefaultFontSize != 18 {
		t.Fatalf("unset keys should keep defaults, got %+v", cfg.Render)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("render:\n  line_spacing: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
