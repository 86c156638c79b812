package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndewijer/finance-dashboard/internal/version"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Personal finance dashboard",
		Long:         `Values a personal portfolio of domestic and foreign equities, crypto and cash in a single reporting currency.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(newServeCmd(), newSnapshotCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
