package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use: "sql-proxy",
}

func bindGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&logLevel, "log-level", "l", "", "Override the configured log level")
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	bindGlobalFlags(rootCmd.PersistentFlags())
}
