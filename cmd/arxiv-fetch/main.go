// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-fetch CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-fetch/internal/logging"
	"github.com/pdiddy/arxiv-fetch/internal/secrets"
	"github.com/pdiddy/arxiv-fetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds values loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is built from --log-level and --log-format before any command runs.
	logger = logging.Discard()
)

// rootCmd is the base command for the arxiv-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-fetch",
	Short: "Find arXiv papers in any input and save their PDFs",
	Long: `arxiv-fetch finds arXiv identifiers in whatever it is given (a bare ID, a
comma or space separated list, an arXiv URL, or any web page or PDF that cites
arXiv papers), looks up each paper's title through the arXiv API, and saves
the PDFs under readable filenames.

Subcommands: download saves PDFs, extract lists what would be saved, and
history shows the download journal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(os.Stderr, logging.Options{
			Level:  viper.GetString("log_level"),
			Format: viper.GetString("log_format"),
		})
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./arxiv-fetch.yaml or ~/.config/arxiv-fetch/arxiv-fetch.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Duration("timeout", 0, "HTTP request timeout (0 keeps the transport default)")
	flags.String("user-agent", "", "User-Agent header for HTTP requests (default "+types.DefaultUserAgent+")")
	flags.String("proxy", "", "proxy URL used when a page cannot be fetched directly")
	flags.String("journal", "", "SQLite journal of download outcomes (empty disables it)")

	mustBind("log_level", flags.Lookup("log-level"))
	mustBind("log_format", flags.Lookup("log-format"))
	mustBind("timeout", flags.Lookup("timeout"))
	mustBind("user_agent", flags.Lookup("user-agent"))
	mustBind("proxy", flags.Lookup("proxy"))
	mustBind("journal_path", flags.Lookup("journal"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-fetch"))
		}
	}

	viper.SetEnvPrefix("ARXIV_FETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadDownloadConfig assembles the run configuration from config file,
// environment, flags, and secrets, in viper's precedence order. Secrets fill
// only what nothing else set.
func loadDownloadConfig() (types.DownloadConfig, error) {
	var cfg types.DownloadConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.Proxy = loadedSecrets.Default(secrets.KeyHTTPProxy, cfg.Proxy)
	cfg.UserAgent = loadedSecrets.Default(secrets.KeyUserAgent, cfg.UserAgent)
	if cfg.TargetFolder == "" {
		cfg.TargetFolder = defaultTargetFolder()
	}
	return cfg.WithDefaults(), nil
}

// defaultTargetFolder is ~/Downloads, or the relative Downloads folder when
// the home directory is unknown.
func defaultTargetFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return types.DefaultTargetFolder
	}
	return filepath.Join(home, types.DefaultTargetFolder)
}

// mustBind binds a config key to a flag. Binding only fails on a nil flag,
// which is a programming error.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
