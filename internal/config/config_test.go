package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultModelsPerAssetFamily(t *testing.T) {
	cfg := DefaultConfig()

	for name, got := range map[string]string{
		"text":   cfg.Provider.TextModel,
		"image":  cfg.Provider.ImageModel,
		"imagen": cfg.Provider.ImagenModel,
		"video":  cfg.Provider.VideoModel,
		"speech": cfg.Provider.SpeechModel,
		"live":   cfg.Provider.LiveModel,
	} {
		assert.NotEmpty(t, got, "default %s model", name)
	}
	assert.Equal(t, ".adgen/history.db", cfg.History.DatabasePath)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	path := filepath.Join(t.TempDir(), "adgen.yaml")
	cfg := DefaultConfig()
	cfg.Provider.TextModel = "gemini-custom"
	cfg.Export.Directory = "/tmp/exports"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-custom", loaded.Provider.TextModel)
	assert.Equal(t, "/tmp/exports", loaded.Export.Directory)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.BaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Errorf("unexpected default base URL: %s", cfg.Provider.BaseURL)
	}
	if cfg.Provider.TextModel != "gemini-2.5-flash" {
		t.Errorf("unexpected default text model: %s", cfg.Provider.TextModel)
	}
}

func TestLoadParsesYAMLAndEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adgen.yaml")
	yaml := `
provider:
  api_key: from-file
  text_model: gemini-2.5-pro
history:
  database_path: /tmp/x.db
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.APIKey != "from-env" {
		t.Errorf("env override lost: %s", cfg.Provider.APIKey)
	}
	if cfg.Provider.TextModel != "gemini-2.5-pro" {
		t.Errorf("yaml value lost: %s", cfg.Provider.TextModel)
	}
	if cfg.History.DatabasePath != "/tmp/x.db" {
		t.Errorf("yaml history path lost: %s", cfg.History.DatabasePath)
	}
}

func TestValidateRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without API key")
	}
	cfg.Provider.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestDurationAccessorsFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.VideoTimeout = "not-a-duration"
	if got := cfg.GetVideoTimeout().Minutes(); got != 5 {
		t.Errorf("expected 5m fallback, got %v", got)
	}
	if got := cfg.GetVideoPollInterval().Seconds(); got != 10 {
		t.Errorf("expected 10s default, got %v", got)
	}
}

func TestUserConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".adgen", "config.json")
	uc := &UserConfig{APIKey: "secret", Logging: &UserLogging{DebugMode: true, Level: "debug"}}
	if err := uc.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadUserConfig(path)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if loaded.APIKey != "secret" {
		t.Errorf("credential lost: %s", loaded.APIKey)
	}
	if loaded.Logging == nil || !loaded.Logging.DebugMode {
		t.Error("logging section lost")
	}
}
