// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the conlang-forge CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/internal/logging"
	"github.com/pdiddy/conlang-forge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, loaded before every command runs.
	cfg types.ForgeConfig

	// logger writes diagnostics to stderr.
	logger = zap.NewNop()
)

// rootCmd is the base command for the conlang-forge CLI.
var rootCmd = &cobra.Command{
	Use:   "conlang-forge",
	Short: "Model-assisted workbench for constructed languages",
	Long: `conlang-forge keeps a constructed language's project file and lexicon on
disk and uses a generative model to grow and reshape them: generate words,
repair entries that break the project's constraints, apply sound changes,
run free-text bulk edits, analyze sentences and design phonologies.

Credentials come from .secrets/<provider>-api-key or, when that file is
absent, from the provider's environment variable (GEMINI_API_KEY or
ANTHROPIC_API_KEY).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./conlang-forge.yaml or ~/.config/conlang-forge/conlang-forge.yaml)")
	pf.StringP("project", "C", ".", "project directory (holds project.yaml and lexicon.db)")
	pf.String("provider", "", "model provider: gemini or claude")
	pf.String("model", "", "model identifier for every operation")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	for key, flag := range map[string]string{
		"project_dir": "project",
		"ai.provider": "provider",
		"ai.model":    "model",
		"log.level":   "log-level",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("conlang-forge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "conlang-forge"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
