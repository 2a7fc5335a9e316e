package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"adgen/internal/config"
	"adgen/internal/gen"
	"adgen/internal/history"
	"adgen/internal/logging"
	"adgen/internal/orchestrator"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	configPath string
	workspace  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "adgen",
	Short: "AdGen Master - AI campaign generation from any product input",
	Long: `adgen turns a product description, image set, page URL or video into a
complete advertising campaign: strategy, ad copy, creative prompts, keywords
and a matching landing page, with follow-on image/video/audio asset
generation on top.

Campaigns are saved to a local history and can be reloaded, refined and
exported as JSON or a zip bundle.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// app bundles the wired components one command invocation needs. campaignID
// is set once a history item has been selected and keys the asset cache.
type app struct {
	cfg        *config.Config
	store      *history.Store
	orch       *orchestrator.Orchestrator
	campaignID string
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// newApp loads config and wires the client, store and orchestrator. Commands
// that talk to the provider set needKey.
func newApp(needKey bool) (*app, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.Provider.APIKey = apiKey
	}
	if needKey {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	store, err := history.NewStore(cfg.History.DatabasePath)
	if err != nil {
		return nil, err
	}

	logging.Boot("wired: model=%s db=%s", cfg.Provider.TextModel, cfg.History.DatabasePath)
	return &app{
		cfg:   cfg,
		store: store,
		orch:  orchestrator.New(gen.NewClient(cfg), store),
	}, nil
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return ".adgen/config.yaml"
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "provider API key (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default .adgen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "workspace directory (default current directory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
