package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/phocus"
	"github.com/aretw0/phocus/internal/cli"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "phocus",
	Short: "Phocus resolves keyboard shortcuts against the focused element",
	Long: `Phocus loads context blueprints from a catalog file or a Loam repository and
answers which action a chord triggers for a given focus path.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("source", "s", "phocus.yaml", "Catalog file (.yaml, .yml, .json) or Loam directory")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.String("store", cli.StoreFile, "Remapping store: file, memory or redis")
	flags.StringP("profile", "p", phocus.DefaultProfile, "Remapping profile")
	flags.String("state-dir", "", "Directory for the file store (default .phocus/remappings)")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis store")
	flags.Int("redis-db", 0, "Redis database for the redis store")
}

func optionsFromFlags(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.Source, _ = flags.GetString("source")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.Store, _ = flags.GetString("store")
	opts.Profile, _ = flags.GetString("profile")
	opts.StateDir, _ = flags.GetString("state-dir")
	opts.RedisAddr, _ = flags.GetString("redis-addr")
	opts.RedisDB, _ = flags.GetInt("redis-db")
	return opts
}

// loadEngine builds the engine for cmd. The caller must run the returned cleanup.
func loadEngine(ctx context.Context, cmd *cobra.Command, hooks ...domain.LifecycleHooks) (*phocus.Engine, func(), error) {
	opts := optionsFromFlags(cmd)
	logger, err := cli.CreateLogger(opts.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	engine, closer, err := cli.CreateEngine(ctx, opts, logger, cmd.OutOrStdout(), hooks...)
	if err != nil {
		return nil, nil, err
	}
	return engine, func() { closeQuietly(closer) }, nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
