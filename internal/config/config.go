// Package config loads the application settings from the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/production-report-tui/internal/models"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath  string
	ExportDir     string
	Product       string
	RenderTimeout time.Duration
	Role          models.Role
	LogLevel      slog.Level
	MetricsAddr   string
	Notifications bool

	// EnvFile is the .env file the settings were read from, if any.
	EnvFile string
}

// Load reads the configuration. Process environment variables win over the
// first .env file found by envFiles. Directories for the database and the
// exports are created.
func Load() (*Config, error) {
	src := source{}
	for _, path := range envFiles() {
		vars, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		src = source{file: vars, path: path}
		break
	}

	base := baseDir()
	cfg := &Config{
		DatabasePath:  src.string("DATABASE_PATH", filepath.Join(base, "production.db")),
		ExportDir:     src.string("EXPORT_DIR", filepath.Join(base, "exports")),
		Product:       src.string("REPORT_PRODUCT", defaultProduct),
		RenderTimeout: parsed(&src, "DOCUMENT_RENDER_TIMEOUT", defaultRenderTimeout, parseSeconds),
		Role:          models.ParseRole(src.string("USER_ROLE", defaultRole)),
		LogLevel:      parseLevel(src.string("LOG_LEVEL", defaultLogLevel)),
		MetricsAddr:   src.string("METRICS_ADDR", ""),
		Notifications: parsed(&src, "NOTIFICATIONS", true, strconv.ParseBool),
		EnvFile:       src.path,
	}

	if cfg.RenderTimeout <= 0 {
		src.errs = append(src.errs, fmt.Errorf("DOCUMENT_RENDER_TIMEOUT must be positive, got %v", cfg.RenderTimeout))
	}
	if err := errors.Join(src.errs...); err != nil {
		return nil, err
	}

	for _, dir := range []string{filepath.Dir(cfg.DatabasePath), cfg.ExportDir} {
		if err := ensureDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return cfg, nil
}

// source resolves settings from the process environment, then the .env file.
type source struct {
	file map[string]string
	path string
	errs []error
}

func (s *source) lookup(key string) (string, bool) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v, true
	}
	v := strings.TrimSpace(s.file[key])
	return v, v != ""
}

func (s *source) string(key, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return def
}

// parsed converts the value of key, recording an error for values that do
// not parse.
func parsed[T any](s *source, key string, def T, parse func(string) (T, error)) T {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	out, err := parse(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return def
	}
	return out
}

// parseSeconds accepts Go durations ("30s", "1m") and bare seconds.
func parseSeconds(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("not a duration")
	}
	return time.Duration(secs) * time.Second, nil
}

// envFiles lists the .env candidates in lookup order.
func envFiles() []string {
	var paths []string
	cwd, cwdErr := os.Getwd()
	if cwdErr == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDir, ".env"),
			filepath.Join(home, "."+appDir, ".env"),
		)
	}
	if cwdErr == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"), filepath.Join(filepath.Dir(parent), ".env"))
	}
	return paths
}

// baseDir is where the database and exports live by default. Without a
// home directory they go under the working directory.
func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDir)
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
