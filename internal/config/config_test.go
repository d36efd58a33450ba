package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/production-report-tui/internal/models"
)

var configKeys = []string{
	"DATABASE_PATH", "EXPORT_DIR", "REPORT_PRODUCT", "DOCUMENT_RENDER_TIMEOUT",
	"USER_ROLE", "LOG_LEVEL", "METRICS_ADDR", "NOTIFICATIONS",
}

// isolate points HOME and the working directory at an empty temp dir and
// blanks every setting, so no real .env file or variable leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	work := filepath.Join(dir, "a", "b", "work")
	if err := os.MkdirAll(work, 0o750); err != nil {
		t.Fatal(err)
	}
	t.Chdir(work)
	t.Setenv("HOME", dir)
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	return dir
}

func writeEnv(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1m", time.Minute, false},
		{"500ms", 500 * time.Millisecond, false},
		{"60", 60 * time.Second, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSeconds(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSeconds(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSeconds(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSource_Precedence(t *testing.T) {
	t.Setenv("REPORT_PRODUCT", "")
	t.Setenv("USER_ROLE", "staff")
	src := &source{file: map[string]string{"REPORT_PRODUCT": "FILE", "USER_ROLE": "viewer"}}

	if got := src.string("REPORT_PRODUCT", "DEF"); got != "FILE" {
		t.Errorf("unset variable = %q, want the file value", got)
	}
	if got := src.string("USER_ROLE", "admin"); got != "staff" {
		t.Errorf("set variable = %q, want the environment value", got)
	}
	if got := src.string("LOG_LEVEL", "info"); got != "info" {
		t.Errorf("missing key = %q, want the default", got)
	}
}

func TestParsed_RecordsErrors(t *testing.T) {
	src := &source{file: map[string]string{"NOTIFICATIONS": "maybe"}}
	t.Setenv("NOTIFICATIONS", "")

	if got := parsed(src, "NOTIFICATIONS", true, strconv.ParseBool); !got {
		t.Error("invalid value should fall back to the default")
	}
	if len(src.errs) != 1 || !strings.Contains(src.errs[0].Error(), "NOTIFICATIONS") {
		t.Errorf("errs = %v, want one NOTIFICATIONS error", src.errs)
	}
}

func TestEnvFiles(t *testing.T) {
	home := isolate(t)
	cwd, _ := os.Getwd()

	paths := envFiles()
	want := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(home, ".config", appDir, ".env"),
		filepath.Join(home, "."+appDir, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(filepath.Dir(filepath.Dir(cwd)), ".env"),
	}
	if len(paths) != len(want) {
		t.Fatalf("envFiles() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("envFiles()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Product != "NZT" {
		t.Errorf("Product = %q, want NZT", cfg.Product)
	}
	if cfg.RenderTimeout != defaultRenderTimeout {
		t.Errorf("RenderTimeout = %v, want %v", cfg.RenderTimeout, defaultRenderTimeout)
	}
	if cfg.Role != models.RoleAdmin {
		t.Errorf("Role = %v, want admin", cfg.Role)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default to true")
	}
	if cfg.MetricsAddr != "" || cfg.EnvFile != "" {
		t.Errorf("MetricsAddr = %q, EnvFile = %q, want both empty", cfg.MetricsAddr, cfg.EnvFile)
	}

	base := filepath.Join(home, ".config", "production-report")
	if cfg.DatabasePath != filepath.Join(base, "production.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.ExportDir != filepath.Join(base, "exports") {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
	if _, err := os.Stat(cfg.ExportDir); err != nil {
		t.Errorf("export dir was not created: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	home := isolate(t)
	t.Setenv("DATABASE_PATH", filepath.Join(home, "data", "db.sqlite"))
	t.Setenv("EXPORT_DIR", filepath.Join(home, "out"))
	t.Setenv("REPORT_PRODUCT", "ACME")
	t.Setenv("DOCUMENT_RENDER_TIMEOUT", "3")
	t.Setenv("USER_ROLE", "manager")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ADDR", ":9464")
	t.Setenv("NOTIFICATIONS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Product != "ACME" || cfg.RenderTimeout != 3*time.Second || cfg.Role != models.RoleManager {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.MetricsAddr != ":9464" || cfg.Notifications {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(home, "data")); err != nil {
		t.Errorf("database dir was not created: %v", err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	home := isolate(t)
	cwd, _ := os.Getwd()
	// The working directory file is found before the one under ~/.config.
	writeEnv(t, filepath.Join(cwd, ".env"), "REPORT_PRODUCT=FROMFILE\nUSER_ROLE=viewer\n")
	writeEnv(t, filepath.Join(home, ".config", appDir, ".env"), "REPORT_PRODUCT=IGNORED\n")
	t.Setenv("USER_ROLE", "staff")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Product != "FROMFILE" {
		t.Errorf("Product = %q, want FROMFILE", cfg.Product)
	}
	if cfg.Role != models.RoleStaff {
		t.Errorf("Role = %v, want the environment to win", cfg.Role)
	}
	if cfg.EnvFile != filepath.Join(cwd, ".env") {
		t.Errorf("EnvFile = %q", cfg.EnvFile)
	}
	if os.Getenv("REPORT_PRODUCT") != "" {
		t.Error("Load() should not export .env values into the process environment")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"negative timeout": "-5s",
		"zero timeout":     "0",
		"garbage timeout":  "later",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv("DOCUMENT_RENDER_TIMEOUT", value)
			t.Setenv("NOTIFICATIONS", "perhaps")

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), "NOTIFICATIONS") {
				t.Errorf("error %q should mention every invalid setting", err)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir")
	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("directory was not created")
	}
	if err := ensureDir(""); err != nil {
		t.Error(`ensureDir("") should not error`)
	}
}
