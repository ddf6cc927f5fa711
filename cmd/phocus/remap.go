package main

import (
	"fmt"

	"github.com/aretw0/phocus/internal/cli"
	"github.com/spf13/cobra"
)

var remapCmd = &cobra.Command{
	Use:   "remap <context> <action> [chord]",
	Short: "Bind an action to a chord in the active profile, or clear it",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		a, ok := engine.Action(args[0], args[1])
		if !ok {
			return fmt.Errorf("action %q not found in context %q", args[1], args[0])
		}

		chord := ""
		if len(args) == 3 {
			chord = args[2]
		}
		if err := engine.RemapAction(cmd.Context(), a, chord); err != nil {
			return err
		}

		if chord == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s cleared in profile %s\n", args[1], engine.Profile())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s in profile %s\n", args[1], chord, engine.Profile())
		return nil
	},
}

var remappingsCmd = &cobra.Command{
	Use:   "remappings",
	Short: "List the remappings of the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := loadEngine(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			if err := engine.ResetRemapping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile %s reset\n", engine.Profile())
			return nil
		}

		for _, r := range engine.CurrentRemapping() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Action, r.Mapping)
		}
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the remapping profiles in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closer, err := cli.CreateStore(optionsFromFlags(cmd))
		if err != nil {
			return err
		}
		defer closeQuietly(closer)

		profiles, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range profiles {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remapCmd, remappingsCmd, profilesCmd)
	remappingsCmd.Flags().Bool("reset", false, "Clear every remapping and delete the stored profile")
}
