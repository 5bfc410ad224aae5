package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the sql proxy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sql-proxy %s\n", version)
	},
}
