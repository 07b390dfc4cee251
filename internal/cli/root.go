// Package cli wires the command-line interface. Commands stay thin; the
// actual work lives in the internal packages they call.
package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/prepify/orgraph/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "orgraph",
	Short: "Czech business registry relationship graph",
	Long: `orgraph builds a relationship graph from Czech business registry data
and serves path and neighborhood queries over it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("orgraph 1.0.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file if one was given, otherwise the defaults,
// and applies environment overrides on top either way.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func Execute() error {
	return rootCmd.Execute()
}
