// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the site-resolver CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/site-resolver/internal/config"
	"github.com/pdiddy/site-resolver/internal/logging"
	"github.com/pdiddy/site-resolver/internal/secrets"
	"github.com/pdiddy/site-resolver/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is built from the persistent flags before any command runs.
	logger = zap.NewNop()

	// loadedSecrets holds credentials read from .secrets/ at startup.
	loadedSecrets map[string]string

	// configErr records a failure to read an explicitly named config file.
	configErr error
)

// rootCmd is the base command for the site-resolver CLI.
var rootCmd = &cobra.Command{
	Use:   "site-resolver",
	Short: "Find official websites for the institutions in a spreadsheet",
	Long: `site-resolver reads a spreadsheet of NBFCs (non-banking financial companies),
searches the web for each name, and records the first result whose page title
marks it as an official site. The enriched sheet is written alongside the input
with an added "Official Website" column and is saved periodically while the
run progresses.

Use resolve for a full run, discover to try a single name, and journal to
inspect past runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}

		l, err := logging.New(viper.GetBool("log.development"), viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./site-resolver.yaml or $XDG_CONFIG_HOME/site-resolver/site-resolver.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-dev", false, "human-readable development logging")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.development", flags.Lookup("log-dev"))
}

func initConfig() {
	config.Configure(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			configErr = fmt.Errorf("reading config %s: %w", cfgFile, err)
			return
		}
	} else {
		viper.SetConfigName("site-resolver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "site-resolver"))
		if err := viper.ReadInConfig(); err != nil {
			return
		}
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
}

// bindFlags binds the named command flags to config keys. Binding happens
// per invocation so that commands sharing a key do not override each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig returns the validated configuration with secrets applied.
func loadConfig() (types.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return types.Config{}, err
	}
	if used := secrets.Apply(loadedSecrets, &cfg); len(used) > 0 {
		logger.Debug("secrets applied", zap.Strings("keys", used))
	}
	return cfg, nil
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
