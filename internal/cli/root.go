// internal/cli/root.go
// Package matscope wires the cobra command tree of the matscope CLI.
package matscope

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/matscope/internal/api"
	"github.com/mwiater/matscope/internal/appconfig"
	"github.com/mwiater/matscope/internal/logging"
	"github.com/mwiater/matscope/internal/page"
)

var (
	cfgFile        string
	configFileUsed string
	currentConfig  *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:          "matscope",
	Short:        "matscope: client for the materials-analysis service",
	Long:         `matscope submits XRD, IR, BET and TGA measurements to the analysis service, renders the returned series as charts and browses the analysis history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load the config file (or defaults) as viper defaults.
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) Copy config values into flags the user did not set so pflags and
		//    viper agree on the final value.
		for _, name := range []string{"baseURL", "output", "logFile"} {
			if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil && !f.Changed {
			_ = cmd.Flags().Set("timeout", strconv.Itoa(viper.GetInt("timeout")))
		}
		if f := cmd.Flags().Lookup("debug"); f != nil && !f.Changed {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}

		// 3) Materialize flags > config > defaults into currentConfig.
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = configFileUsed
		if err := cfg.Validate(); err != nil {
			return err
		}
		currentConfig = &cfg

		return logging.Init(cfg.LogFilePath(), cfg.Debug)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().String("baseURL", appconfig.DefaultBaseURL, "origin of the analysis service")
	rootCmd.PersistentFlags().Int("timeout", 0, "per-request timeout in seconds (0 waits indefinitely)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().StringP("output", "o", "human", "output format (human, json, yaml)")
	rootCmd.PersistentFlags().String("logFile", appconfig.DefaultLogFile, "request and event log file")

	for _, name := range []string{"baseURL", "timeout", "debug", "output", "logFile"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// ensureConfigLoaded registers the config file values, layered over the
// built-in defaults, as viper defaults. A missing file is not an error.
func ensureConfigLoaded() error {
	base := appconfig.Defaults()
	configFileUsed = ""

	loaded, err := appconfig.Load(cfgFile)
	switch {
	case err == nil:
		base = loaded
		configFileUsed = loaded.ConfigPath
	case errors.Is(err, appconfig.ErrConfigNotFound):
	default:
		return fmt.Errorf("failed to load config: %w", err)
	}

	viper.SetDefault("baseURL", base.BaseURL)
	viper.SetDefault("timeout", base.TimeoutSeconds)
	viper.SetDefault("logFile", base.LogFile)
	viper.SetDefault("debug", base.Debug)
	viper.SetDefault("output", base.Output)
	viper.SetDefault("serveAddr", base.ServeAddr)
	viper.SetDefault("allowedOrigins", base.AllowedOrigins)
	viper.SetDefault("chartWidth", base.ChartWidth)
	viper.SetDefault("chartHeight", base.ChartHeight)
	return nil
}

// getConfig returns the merged configuration, or the defaults when no
// command has run yet.
func getConfig() *appconfig.Config {
	if currentConfig == nil {
		cfg := appconfig.Defaults()
		return &cfg
	}
	return currentConfig
}

// newController builds a page controller against the configured service.
var newController = func(cfg *appconfig.Config, loading page.LoadingIndicator) *page.Controller {
	return page.New(api.New(cfg), loading)
}
