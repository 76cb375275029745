// Package cmd implements the clicklar-devapi commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/clicklar/internal/config"
)

var rootCmd = newRootCmd()

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clicklar-devapi",
		Short: "Run an in-memory clicklar marketplace API",
		Long: "clicklar-devapi serves the marketplace REST API from memory so the\n" +
			"clicklar CLI can be developed and tested without a real backend.\n" +
			"Data is lost on exit.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "application config file")
	cobra.CheckErr(viper.BindPFlag("config", root.PersistentFlags().Lookup("config")))

	viper.SetEnvPrefix("CLICKLAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.AddCommand(serveCmd(), seedCmd(), versionCmd())
	return root
}

// loadConfig reads the application config and applies the serve flag and
// environment overrides on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if secret := viper.GetString("jwt-secret"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if port := viper.GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if host := viper.GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if seed := viper.GetString("seed"); seed != "" {
		cfg.SeedFile = seed
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}
