package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathantheresa/portfolio/internal/config"
	"github.com/nathantheresa/portfolio/internal/logging"
)

var (
	cfg    *config.Config
	logger *logging.Logger
)

// initConfig loads configuration and the process-wide logger
func initConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	logConfig := logging.DefaultConfig()
	logConfig.Level = cfg.LogLevel
	logConfig.File = cfg.LogFile
	logging.Configure(logConfig)

	logger = logging.GetLogger()
	logger.SetRequestLogging(cfg.LogRequests)
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio API - contact form, blog and video proxy",
	Long: `Portfolio API serves the contact form relay, the markdown blog and the
YouTube channel proxy behind the personal site.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initConfig()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
