package main

import (
	"fmt"

	"github.com/aretw0/phocus/internal/cli"
	"github.com/aretw0/phocus/internal/presentation/graph"
	"github.com/aretw0/phocus/internal/presentation/tui"
	"github.com/aretw0/phocus/pkg/adapters/memory"
	"github.com/spf13/cobra"
)

var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List registered contexts and their actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		for _, c := range cli.ContextSummaries(engine) {
			opaque := ""
			if c.Opaque {
				opaque = " [opaque]"
			}
			fmt.Fprintf(out, "%s (%s)%s\n", c.ID, c.Name, opaque)
			tui.PrintActions(out, c.Actions)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Show the context stack and available actions for a focus path",
	Long: `Resolves a focus path such as "root/project=big-arg/" into a context stack.
Segments are separated by '/', '=' attaches an argument and an empty segment is
an unmarked element. With --key, reports which action the chord triggers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markers, err := cli.ParseFocusPath(args[0])
		if err != nil {
			return err
		}

		engine, cleanup, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if leaf := memory.FromPath(markers); leaf != nil {
			engine.SetContext(leaf)
		}

		out := cmd.OutOrStdout()
		if key, _ := cmd.Flags().GetString("key"); key != "" {
			match, ok := engine.ActionForKeypress(key)
			if !ok {
				fmt.Fprintf(out, "%s is not bound\n", key)
				return nil
			}
			fmt.Fprintf(out, "%s -> %s.%s (%s)\n", key, match.Entry.Context, match.ActionID, match.Action.Name())
			return nil
		}

		tui.PrintStack(out, engine.ContextStack(), engine.UnresolvedContexts())
		fmt.Fprintln(out)
		tui.PrintActions(out, cli.Summaries(engine, engine.AvailableActions()))
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <path>",
	Short: "Print a Mermaid diagram of the context stack for a focus path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markers, err := cli.ParseFocusPath(args[0])
		if err != nil {
			return err
		}

		engine, cleanup, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if leaf := memory.FromPath(markers); leaf != nil {
			engine.SetContext(leaf)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(graph.BuildStack(engine)))
		return nil
	},
}

var cheatsheetCmd = &cobra.Command{
	Use:   "cheatsheet",
	Short: "Render every context and its shortcuts as markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		title := "Shortcuts"
		if engine.Name != "" {
			title = engine.Name + " shortcuts"
		}
		md := tui.CheatSheet(title, cli.ContextSummaries(engine))

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		rendered, err := tui.NewRenderer()(md)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contextsCmd, resolveCmd, graphCmd, cheatsheetCmd)
	resolveCmd.Flags().StringP("key", "k", "", "Chord to look up, e.g. Control+s")
	cheatsheetCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}
