package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{Backend: BackendBadger, DataPath: "/data"},
		Export: ExportConfig{
			ViewportWidth:  1280,
			ViewportHeight: 800,
			PixelRatio:     1,
			MaxDimension:   7680,
			RatePerMinute:  30,
			Burst:          5,
		},
		View: ViewConfig{IdleTimeout: 30 * time.Minute},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_StorageBackends(t *testing.T) {
	tests := []struct {
		backend  string
		dataPath string
		valid    bool
	}{
		{BackendBadger, "/data", true},
		{BackendSQLite, "/data", true},
		{BackendMemory, "", true},
		{BackendBadger, "", false},
		{"redis", "/data", false},
	}

	for _, tt := range tests {
		t.Run(tt.backend+"/"+tt.dataPath, func(t *testing.T) {
			cfg := validConfig()
			cfg.Storage = StorageConfig{Backend: tt.backend, DataPath: tt.dataPath}
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_ExportBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Export.PixelRatio = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Export.MaxDimension = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.View.IdleTimeout = 0
	assert.Error(t, cfg.Validate())
}

func TestParseDimensions(t *testing.T) {
	w, h, err := ParseDimensions("1920x1080")
	require.NoError(t, err)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	w, h, err = ParseDimensions(" 3840X2160 ")
	require.NoError(t, err)
	assert.Equal(t, 3840, w)
	assert.Equal(t, 2160, h)

	_, _, err = ParseDimensions("1920")
	assert.Error(t, err)
	_, _, err = ParseDimensions("ax10")
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("DATA_PATH", "")
	dir := t.TempDir()

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, dir, cfg.Storage.DataPath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 1280, cfg.Export.ViewportWidth)
	assert.Equal(t, 800, cfg.Export.ViewportHeight)
	assert.Equal(t, 7680, cfg.Export.MaxDimension)
	assert.Equal(t, 30*time.Minute, cfg.View.IdleTimeout)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-port", "9100",
		"-env-file", filepath.Join(t.TempDir(), "missing.env"),
	})
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_InvalidViewport(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-export-viewport", "wide",
		"-env-file", filepath.Join(t.TempDir(), "missing.env"),
	})
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nPV_TEST_ONE=one\nPV_TEST_QUOTED=\"two\"\nPV_TEST_KEEP=file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PV_TEST_KEEP", "env")
	t.Cleanup(func() {
		os.Unsetenv("PV_TEST_ONE")
		os.Unsetenv("PV_TEST_QUOTED")
	})

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "one", os.Getenv("PV_TEST_ONE"))
	assert.Equal(t, "two", os.Getenv("PV_TEST_QUOTED"))
	assert.Equal(t, "env", os.Getenv("PV_TEST_KEEP"))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOEQUALS\n"), 0o600))
	assert.Error(t, loadEnvFile(path))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
