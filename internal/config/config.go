// Package config loads paletteview configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Palette PaletteConfig
	Export  ExportConfig
	View    ViewConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects where custom palettes are persisted.
type StorageConfig struct {
	Backend  string // badger, sqlite or memory
	DataPath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// PaletteConfig holds palette source configuration.
type PaletteConfig struct {
	// BundledPath replaces the embedded built-in palettes when set.
	BundledPath string
}

// ExportConfig controls server-side rendering and capture.
type ExportConfig struct {
	ViewportWidth  int
	ViewportHeight int
	PixelRatio     float64
	MaxDimension   int
	RatePerMinute  int
	Burst          int
}

// ViewConfig controls view session lifetime.
type ViewConfig struct {
	IdleTimeout time.Duration
}

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(flag.CommandLine, os.Args[1:])
}

// Load is LoadConfig against an explicit flag set and argument list.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for persisted custom palettes")
	backend := fs.String("storage-backend", "", "Storage backend (badger, sqlite, memory)")
	bundledPath := fs.String("bundled-palettes", "", "JSON file replacing the built-in palettes")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	origins := fs.String("cors-origins", "", "Comma separated allowed CORS origins")

	viewport := fs.String("export-viewport", "", "Natural render viewport WxH (default: 1280x800)")
	pixelRatio := fs.String("export-pixel-ratio", "", "Device pixel ratio for captures (default: 1)")
	maxDimension := fs.String("export-max-dimension", "", "Largest export width or height (default: 7680)")
	ratePerMinute := fs.String("export-rate", "", "Exports per minute per client (default: 30)")
	burst := fs.String("export-burst", "", "Export burst size (default: 5)")
	viewIdle := fs.String("view-idle-timeout", "", "Close view sessions idle this long (default: 30m)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Backend:  getConfigValue(*backend, "STORAGE_BACKEND", BackendBadger),
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*origins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Palette: PaletteConfig{
			BundledPath: getConfigValue(*bundledPath, "BUNDLED_PALETTES_PATH", ""),
		},
		Export: ExportConfig{
			MaxDimension:  getIntConfigValue(*maxDimension, "EXPORT_MAX_DIMENSION", 7680),
			RatePerMinute: getIntConfigValue(*ratePerMinute, "EXPORT_RATE_PER_MINUTE", 30),
			Burst:         getIntConfigValue(*burst, "EXPORT_BURST", 5),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.View.IdleTimeout, err = getDurationConfigValue(*viewIdle, "VIEW_IDLE_TIMEOUT", "30m"); err != nil {
		return nil, err
	}

	vp := getConfigValue(*viewport, "EXPORT_VIEWPORT", "1280x800")
	if cfg.Export.ViewportWidth, cfg.Export.ViewportHeight, err = ParseDimensions(vp); err != nil {
		return nil, fmt.Errorf("invalid export viewport %q: %w", vp, err)
	}

	pr := getConfigValue(*pixelRatio, "EXPORT_PIXEL_RATIO", "1")
	if cfg.Export.PixelRatio, err = strconv.ParseFloat(pr, 64); err != nil {
		return nil, fmt.Errorf("invalid export pixel ratio %q: %w", pr, err)
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Palette.BundledPath != "" {
		if cfg.Palette.BundledPath, err = expandPath(cfg.Palette.BundledPath, ""); err != nil {
			return nil, fmt.Errorf("invalid bundled palettes path: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Storage.Backend {
	case BackendBadger, BackendSQLite:
		if c.Storage.DataPath == "" {
			return errors.New("data path cannot be empty for a disk backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be badger, sqlite, or memory)", c.Storage.Backend)
	}

	if c.Export.ViewportWidth <= 0 || c.Export.ViewportHeight <= 0 {
		return errors.New("export viewport must be positive")
	}
	if c.Export.PixelRatio <= 0 {
		return errors.New("export pixel ratio must be positive")
	}
	if c.Export.MaxDimension <= 0 {
		return errors.New("export max dimension must be positive")
	}
	if c.Export.RatePerMinute <= 0 || c.Export.Burst <= 0 {
		return errors.New("export rate and burst must be positive")
	}
	if c.View.IdleTimeout <= 0 {
		return errors.New("view idle timeout must be positive")
	}

	return nil
}

// ParseDimensions parses "WxH" into width and height.
func ParseDimensions(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.New("expected WxH")
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	return width, height, nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data directory to ~/PaletteView/data.
func (c *Config) expandDataPath() error {
	if c.Storage.Backend == BackendMemory {
		return nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	expanded, err := expandPath(c.Storage.DataPath, filepath.Join(homeDir, "PaletteView", "data"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), s, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
