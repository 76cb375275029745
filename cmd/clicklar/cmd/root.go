// Package cmd implements the clicklar CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/clicklar/internal/config"
)

var (
	prefsFile string
	rootCmd   = newRootCmd()
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initPrefs)
}

// newRootCmd builds the command tree and binds its persistent flags to
// viper.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clicklar",
		Short: "Browse and manage services on the clicklar marketplace",
		Long: "clicklar is a command-line client for the clicklar services marketplace.\n" +
			"It lets you browse and search listings, contact providers, publish\n" +
			"and rate services, and manage your account from the terminal.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&prefsFile, "prefs", "", "CLI preferences file (default $HOME/.clicklar.yaml)")
	flags.String("config", "", "application config file (api, session, telemetry sections)")
	flags.String("server", "", "API base URL (default "+config.DefaultBaseURL+")")
	flags.String("output", "table", "output format (table, json)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	for _, name := range []string{"config", "server", "output", "log-level"} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		registerCmd(),
		categoriesCmd(),
		browseCmd(),
		servicesCmd(),
		profileCmd(),
		versionCmd(),
	)
	return root
}

func initPrefs() {
	if prefsFile != "" {
		viper.SetConfigFile(prefsFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".clicklar")
	}

	viper.SetEnvPrefix("CLICKLAR")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using preferences file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the application config and applies flag, env and
// preference overrides on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if server := viper.GetString("server"); server != "" {
		cfg.API.BaseURL = server
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

// render writes v as JSON with --output json, and through table otherwise.
func render(w io.Writer, v any, table func(io.Writer) error) error {
	if jsonOutput() {
		return outputJSON(w, v)
	}
	return table(w)
}
