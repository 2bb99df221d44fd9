// Package app provides the entry point for the lakecat command.
package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datapond/lakecat/internal/logger"
	"github.com/datapond/lakecat/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "lakecat",
	DisableAutoGenTag: true,
	Short:             "Hierarchical data-source catalog",
	Long: `lakecat maintains a hierarchical catalog of named data-source descriptors
sourced from catalog files, directories of catalog files, and remote catalog
servers. It can inspect any such observable or serve one over HTTP.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize(viper.GetBool("debug"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates the root command for lakecat.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Fatalf("Failed to bind debug flag: %v", err)
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(catalogsCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			logger.Errorf("Error retrieving format flag: %v", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				logger.Errorf("Error formatting version info as JSON: %v", err)
				return
			}
			fmt.Println(string(output))
		} else {
			fmt.Printf("lakecat %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
