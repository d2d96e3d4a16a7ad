package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "insights",
	Short: "Order insights service",
	Long:  `Business-intelligence service over the order-management database: daily, hourly, weekly and monthly aggregates plus order concurrency analysis.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
