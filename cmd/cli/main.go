package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"usage-report/internal/config"
	"usage-report/internal/model"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "usage-report",
	Short: "Hourly usage reports from channel on/off logs",
	Long: `usage-report reads a semicolon-separated log of channel state transitions
(entry;state;DD/MM/YYYY;HH:MM:SS), totals the active time per hour of day and renders
a bar chart with the energy and cost summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_FILE)")
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", model.MessageOf(err))
		os.Exit(1)
	}
}
