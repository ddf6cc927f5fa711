package main

import (
	"fmt"

	"github.com/aretw0/phocus"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of phocus",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "phocus version %s\n", phocus.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
