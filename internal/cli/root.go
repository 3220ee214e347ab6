// Package cli wires the kalebbot commands: index, query, chat, serve.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kalebbot/config"
	"kalebbot/internal/pkg/logger"

	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kalebbot",
	Short: "Personal automation assistant with a semantic knowledge base",
	Long: `KalebBot routes free-text tasks to specialized agents (email, finance,
scheduling, documents, support, WhatsApp) and answers questions against
a locally indexed knowledge base.

Example usage:
  kalebbot index                          # Build the knowledge base
  kalebbot query -q "vacation policy"     # Search the knowledge base
  kalebbot chat                           # Interactive assistant
  kalebbot serve                          # Web dashboard and API`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err = logger.New(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./kalebbot.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}
