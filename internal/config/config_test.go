package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Provider != "openai" {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model: got %q, want %q", cfg.Model, "gpt-4o-mini")
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("MaxTokens: got %d, want %d", cfg.MaxTokens, 1000)
	}
	if cfg.Parallel != 10 {
		t.Errorf("Parallel: got %d, want %d", cfg.Parallel, 10)
	}
	if cfg.OutputDir != "eval_results" {
		t.Errorf("OutputDir: got %q, want %q", cfg.OutputDir, "eval_results")
	}
	if cfg.CacheTTL != "0" {
		t.Errorf("CacheTTL: got %q, want %q", cfg.CacheTTL, "0")
	}
}

func TestIsAzureEndpoint(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://myresource.openai.azure.com/openai/v1", true},
		{"https://myresource.services.ai.azure.com/anthropic/", true},
		{"https://myresource.azure.us/foo", true},
		{"https://api.anthropic.com/", false},
		{"https://api.openai.com/v1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsAzureEndpoint(tt.url)
			if got != tt.want {
				t.Errorf("IsAzureEndpoint(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseDurationOrDisable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMs  int64
		wantErr bool
	}{
		{"empty returns fallback", "", 5000, false},
		{"zero disables", "0", 0, false},
		{"off disables", "off", 0, false},
		{"disable disables", "disable", 0, false},
		{"valid duration", "30s", 30000, false},
		{"valid short duration", "500ms", 500, false},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDurationOrDisable(tt.input, 5*time.Second)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDurationOrDisable(%q): error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Milliseconds() != tt.wantMs {
				t.Errorf("parseDurationOrDisable(%q) = %v, want %dms", tt.input, got, tt.wantMs)
			}
		})
	}
}

// clearEnv blanks every variable that Load consults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FERMIBENCH_PROVIDER", "FERMIBENCH_MODEL", "FERMIBENCH_BASE_URL",
		"FERMIBENCH_API_KEY", "FERMIBENCH_DATASET", "FERMIBENCH_OUTPUT_DIR",
		"FERMIBENCH_CACHE_TTL",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
		"AZURE_OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"AZURE_RESOURCE_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".fermibench.yaml")
	content := `provider: anthropic
model: claude-sonnet-4-5
api_key: test-key-123
max_tokens: 2000
dataset: questions.csv
output_dir: out
parallel: 5
cache_ttl: "5m"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// Change to temp dir so Load() finds the config
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)

	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, "anthropic")
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("Model: got %q, want %q", cfg.Model, "claude-sonnet-4-5")
	}
	if cfg.APIKey != "test-key-123" {
		t.Errorf("APIKey: got %q, want %q", cfg.APIKey, "test-key-123")
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("MaxTokens: got %d, want %d", cfg.MaxTokens, 2000)
	}
	if cfg.Dataset != "questions.csv" {
		t.Errorf("Dataset: got %q, want %q", cfg.Dataset, "questions.csv")
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir: got %q, want %q", cfg.OutputDir, "out")
	}
	if cfg.Parallel != 5 {
		t.Errorf("Parallel: got %d, want %d", cfg.Parallel, 5)
	}
	if cfg.CacheTTLDuration != 5*time.Minute {
		t.Errorf("CacheTTLDuration: got %v, want 5m", cfg.CacheTTLDuration)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".fermibench.yaml")
	content := `provider: anthropic
model: claude-sonnet-4-5
api_key: file-key
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)

	clearEnv(t)
	t.Setenv("FERMIBENCH_PROVIDER", "openai")
	t.Setenv("FERMIBENCH_MODEL", "gpt-4o")
	t.Setenv("FERMIBENCH_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider: got %q, want %q (env should override file)", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model: got %q, want %q (env should override file)", cfg.Model, "gpt-4o")
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey: got %q, want %q (env should override file)", cfg.APIKey, "env-key")
	}
}

func TestAPIKeyFallbacks(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())

	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "provider-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "provider-key" {
		t.Errorf("APIKey: got %q, want %q", cfg.APIKey, "provider-key")
	}
}

func TestAzureBaseURLFallback(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())

	clearEnv(t)
	t.Setenv("FERMIBENCH_PROVIDER", "anthropic")
	t.Setenv("AZURE_RESOURCE_NAME", "myres")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if want := "https://myres.services.ai.azure.com/anthropic/"; cfg.BaseURL != want {
		t.Errorf("BaseURL: got %q, want %q", cfg.BaseURL, want)
	}
}
