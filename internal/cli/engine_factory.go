package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/phocus"
	"github.com/aretw0/phocus/internal/adapters/file"
	"github.com/aretw0/phocus/internal/logging"
	"github.com/aretw0/phocus/pkg/adapters/memory"
	"github.com/aretw0/phocus/pkg/adapters/redis"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/aretw0/phocus/pkg/observability"
	"github.com/aretw0/phocus/pkg/ports"
	"github.com/aretw0/phocus/pkg/registry"
)

// CreateLogger configures the application logger on stderr, keeping stdout
// free for command output.
func CreateLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, lvl), nil
}

// CreateStore opens the remapping store selected by opts.
// The returned closer releases backend connections.
func CreateStore(opts Options) (ports.RemappingStore, io.Closer, error) {
	switch opts.Store {
	case "", StoreFile:
		return file.New(opts.StateDir), nopCloser{}, nil
	case StoreMemory:
		return memory.NewStore(), nopCloser{}, nil
	case StoreRedis:
		store := redis.New(opts.RedisAddr, os.Getenv("PHOCUS_REDIS_PASSWORD"), opts.RedisDB)
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q: expected %s, %s or %s", opts.Store, StoreFile, StoreMemory, StoreRedis)
	}
}

// CreateHandlers returns a registry that accepts any handler name. Since the
// CLI has no application code behind a catalog, firing an action announces
// its handler on out.
func CreateHandlers(out io.Writer) *registry.Registry {
	reg := registry.NewRegistry()
	reg.SetFallback(func(name string) registry.HandlerFunc {
		return func() {
			fmt.Fprintf(out, ">>> handler %q invoked\n", name)
		}
	})
	return reg
}

// CreateEngine initializes and loads an engine with standard CLI conventions.
// Extra hooks run after the logging hooks.
func CreateEngine(ctx context.Context, opts Options, logger *slog.Logger, out io.Writer, hooks ...domain.LifecycleHooks) (*phocus.Engine, io.Closer, error) {
	store, closer, err := CreateStore(opts)
	if err != nil {
		return nil, nil, err
	}

	all := append([]domain.LifecycleHooks{observability.LoggingHooks(logger)}, hooks...)
	engine, err := phocus.New(opts.Source,
		phocus.WithLogger(logger),
		phocus.WithHandlers(CreateHandlers(out)),
		phocus.WithRemappingStore(store, opts.Profile),
		phocus.WithLifecycleHooks(observability.Chain(all...)),
	)
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("error initializing phocus: %w", err)
	}

	if err := engine.Load(ctx); err != nil {
		closer.Close()
		return nil, nil, err
	}
	return engine, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
