package main

import (
	"os"

	"github.com/aretw0/phocus"
	"github.com/aretw0/phocus/internal/cli"
	"github.com/aretw0/phocus/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactively move focus and dispatch chords",
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		engine, cleanup, err := loadEngine(sigCtx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		console := cli.NewConsole(engine, os.Stdin, out)
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(out, phocus.Version)
			console.Execute(sigCtx, ":help")
		}
		return console.Run(sigCtx)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().BoolP("quiet", "q", false, "Skip the banner and help")
}
