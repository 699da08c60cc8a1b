// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/conlang-forge/internal/secrets"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage local settings",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store the API key for the configured provider",
	Long: `Set-key writes the API key to <secrets_dir>/<provider>-api-key, which
takes precedence over the provider's environment variable. With no
argument the key is read from the first line of stdin, keeping it out of
shell history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetKey,
}

func runSetKey(cmd *cobra.Command, args []string) error {
	key := joinArgs(args)
	if key == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no API key given")
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		return errors.New("no API key given")
	}

	name := secrets.KeyName(cfg.AI.Provider)
	if err := secrets.Save(cfg.SecretsDir, name, key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to %s\n", cfg.AI.Provider, filepath.Join(cfg.SecretsDir, name))
	return nil
}

func init() {
	configCmd.AddCommand(setKeyCmd)
	rootCmd.AddCommand(configCmd)
}
