package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adgen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage adgen configuration",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Save the provider API key",
	Long: `Stores the provider API key in .adgen/config.json so it does not need to
be passed on every invocation. The GEMINI_API_KEY environment variable still
takes precedence when set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultUserConfigPath()
		uc, err := config.LoadUserConfig(path)
		if err != nil {
			uc = &config.UserConfig{}
		}
		uc.APIKey = args[0]
		if err := uc.Save(path); err != nil {
			return err
		}
		fmt.Printf("API key saved to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(resolveConfigPath())
		if err != nil {
			return err
		}

		key := "(not set)"
		if cfg.Provider.APIKey != "" {
			key = "(set)"
		}
		fmt.Printf("Provider:\n")
		fmt.Printf("  api key:       %s\n", key)
		fmt.Printf("  base url:      %s\n", cfg.Provider.BaseURL)
		fmt.Printf("  text model:    %s\n", cfg.Provider.TextModel)
		fmt.Printf("  image model:   %s\n", cfg.Provider.ImageModel)
		fmt.Printf("  imagen model:  %s\n", cfg.Provider.ImagenModel)
		fmt.Printf("  video model:   %s\n", cfg.Provider.VideoModel)
		fmt.Printf("  speech model:  %s\n", cfg.Provider.SpeechModel)
		fmt.Printf("  live model:    %s\n", cfg.Provider.LiveModel)
		fmt.Printf("History database: %s\n", cfg.History.DatabasePath)
		fmt.Printf("Export directory: %s\n", cfg.Export.Directory)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetKeyCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
