package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fermibench/fermibench/internal/completion"
	"github.com/fermibench/fermibench/internal/config"
	fbotel "github.com/fermibench/fermibench/internal/otel"
)

// Version is injected by the linker at release time.
var Version = "dev"

var (
	// Global flags.
	flagProvider  string
	flagModel     string
	flagBaseURL   string
	flagAPIKey    string
	flagMaxTokens int64
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "fermibench",
	Short: "LLM order-of-magnitude estimation benchmark",
	Long: `fermibench asks language models Fermi-style quantity questions and
scores their answers against reference intervals.

An estimate passes when, after unit conversion, its central value falls
strictly inside the reference bounds. Unit compatibility is itself judged
by an LLM; Go code only parses, converts, and aggregates.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: anthropic, openai (default: openai)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "LLM model name (default: gpt-4o-mini for openai, claude-sonnet-4-5 for anthropic)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override LLM API base URL")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "override LLM API key")
	rootCmd.PersistentFlags().Int64Var(&flagMaxTokens, "max-tokens", 0, "max completion tokens per turn (default: 1000)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "include reasoning traces in output")
}

// loadConfig loads file and environment configuration, then applies
// command-line flag overrides. Flags always win.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagMaxTokens > 0 {
		cfg.MaxTokens = flagMaxTokens
	}
	return cfg, nil
}

// initTelemetry sets up OTEL from the config. A nil-safe no-op Telemetry
// comes back when no endpoint is configured.
func initTelemetry(ctx context.Context, cfg *config.Config) (*fbotel.Telemetry, error) {
	fbotel.Version = Version
	return fbotel.Init(ctx, fbotel.Config{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
}

// getService returns the configured LLM completion service.
func getService(cfg *config.Config, metrics *fbotel.Metrics) (completion.Service, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicService(cfg, metrics)
	case "openai":
		return newOpenAIService(cfg, metrics)
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: anthropic, openai)", cfg.Provider)
	}
}

// newAnthropicService creates an Anthropic client with the resolved config.
func newAnthropicService(cfg *config.Config, metrics *fbotel.Metrics) (completion.Service, error) {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-5"
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key found. Set FERMIBENCH_API_KEY, AZURE_OPENAI_API_KEY, or ANTHROPIC_API_KEY")
	}

	// Azure AI Foundry needs both "api-key" (Azure) and "x-api-key"
	// (Anthropic SDK default) headers.
	extraHeaders := map[string]string{}
	if os.Getenv("AZURE_RESOURCE_NAME") != "" || config.IsAzureEndpoint(cfg.BaseURL) {
		extraHeaders["api-key"] = cfg.APIKey
	}

	return completion.NewAnthropicClient(completion.AnthropicConfig{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		Model:        model,
		MaxTokens:    cfg.MaxTokens,
		ExtraHeaders: extraHeaders,
		Metrics:      metrics,
	}), nil
}

// newOpenAIService creates an OpenAI client with the resolved config.
func newOpenAIService(cfg *config.Config, metrics *fbotel.Metrics) (completion.Service, error) {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key found. Set FERMIBENCH_API_KEY, AZURE_OPENAI_API_KEY, or OPENAI_API_KEY")
	}

	extraHeaders := map[string]string{}
	if os.Getenv("AZURE_RESOURCE_NAME") != "" || config.IsAzureEndpoint(cfg.BaseURL) {
		extraHeaders["api-key"] = cfg.APIKey
	}

	return completion.NewOpenAIClient(completion.OpenAIConfig{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		Model:        model,
		MaxTokens:    cfg.MaxTokens,
		ExtraHeaders: extraHeaders,
		Metrics:      metrics,
	}), nil
}
