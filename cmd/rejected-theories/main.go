// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rejected-theories CLI: the web UI
// (serve), a one-shot terminal lookup (fetch), and version.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/rejected-theories/internal/logging"
	"github.com/pdiddy/rejected-theories/internal/secrets"
	"github.com/pdiddy/rejected-theories/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Loaded once per invocation by the root command's pre-run.
var (
	appConfig types.Config
	logger    = zap.NewNop()
)

// rootCmd is the base command for the rejected-theories CLI.
var rootCmd = &cobra.Command{
	Use:   "rejected-theories",
	Short: "Look up scientific theories discredited before a given year",
	Long: `rejected-theories searches Wikipedia for outdated or discredited scientific
theories before a year and shows a short extract of each, with a link to the
full article.

Run "serve" for the web page or "fetch --year N" for a one-shot lookup in
the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		cfg.Wikipedia.UserAgent = secrets.UserAgent(cfg.Wikipedia.UserAgent, s)
		appConfig = cfg

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rejected-theories.yaml or ~/.config/rejected-theories/rejected-theories.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rejected-theories")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rejected-theories"))
		}
	}

	viper.SetEnvPrefix("REJECTED_THEORIES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(types.DefaultConfig())

	_ = viper.ReadInConfig()
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(d types.Config) {
	viper.SetDefault("wikipedia.timeout", d.Wikipedia.Timeout)
	viper.SetDefault("wikipedia.user_agent", d.Wikipedia.UserAgent)
	viper.SetDefault("wikipedia.api_base", d.Wikipedia.APIBase)
	viper.SetDefault("wikipedia.page_base", d.Wikipedia.PageBase)

	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	viper.SetDefault("server.session_ttl", d.Server.SessionTTL)
	viper.SetDefault("server.max_sessions", d.Server.MaxSessions)
	viper.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("log.file", d.Log.File)
	viper.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	viper.SetDefault("log.max_backups", d.Log.MaxBackups)
	viper.SetDefault("log.max_age_days", d.Log.MaxAgeDays)

	viper.SetDefault("animation.offset", d.Animation.Offset)
	viper.SetDefault("animation.duration", d.Animation.Duration)
	viper.SetDefault("animation.delay", d.Animation.Delay)
	viper.SetDefault("animation.easing", d.Animation.Easing)
	viper.SetDefault("animation.card_delay", d.Animation.CardDelay)
}

// loadConfig decodes viper's merged settings on top of the defaults.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
