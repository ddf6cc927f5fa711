package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/aretw0/phocus/internal/logging"
	"github.com/aretw0/phocus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
contexts:
  - id: root
    name: Root
    actions:
      - id: logout
        name: Log out
        keys: [Control+s, Control+o]
        handler: logout
  - id: project
    name: Project
    actions:
      - id: save
        name: Save
        keys: Control+s
        handler: save
`

func newTestEngineOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))
	return Options{Source: path, Store: StoreFile, StateDir: filepath.Join(dir, "state"), Profile: "test"}
}

func TestParseFocusPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    []domain.Marker
		wantErr bool
	}{
		{name: "empty", path: "", want: nil},
		{name: "single", path: "root", want: []domain.Marker{{Context: "root"}}},
		{
			name: "argument and unmarked",
			path: "root//project=big-arg",
			want: []domain.Marker{{Context: "root"}, {}, {Context: "project", Argument: "big-arg", HasArgument: true}},
		},
		{name: "empty argument", path: "root=", want: []domain.Marker{{Context: "root", HasArgument: true}}},
		{name: "argument without context", path: "=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFocusPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateStore(t *testing.T) {
	for _, kind := range []string{"", StoreFile, StoreMemory, StoreRedis} {
		store, closer, err := CreateStore(Options{Store: kind, StateDir: t.TempDir(), RedisAddr: "localhost:0"})
		require.NoError(t, err, kind)
		assert.NotNil(t, store)
		assert.NoError(t, closer.Close())
	}

	_, _, err := CreateStore(Options{Store: "etcd"})
	assert.ErrorContains(t, err, "unknown store")
}

func TestCreateLogger(t *testing.T) {
	_, err := CreateLogger("debug")
	assert.NoError(t, err)
	_, err = CreateLogger("loud")
	assert.Error(t, err)
}

func TestConsole_Session(t *testing.T) {
	ctx := context.Background()
	opts := newTestEngineOptions(t)

	var out bytes.Buffer
	engine, closer, err := CreateEngine(ctx, opts, logging.NewNop(), &out)
	require.NoError(t, err)
	defer closer.Close()

	input := strings.Join([]string{
		":focus root/project=big-arg",
		"Control+s",
		"Control+o",
		"F13",
		":actions",
		":conflicts",
		":remap project save Control+w",
		"Control+s",
		":remappings",
		":remap project nope F1",
		":bogus",
		":quit",
		"Control+s",
	}, "\n")

	console := NewConsole(engine, strings.NewReader(input), &out)
	assert.False(t, console.prompt)
	require.NoError(t, console.Run(ctx))

	got := out.String()
	assert.Contains(t, got, "project: big-arg")
	assert.Contains(t, got, `>>> Control+s -> Save (project)`)
	assert.Contains(t, got, `>>> handler "save" invoked`)
	assert.Contains(t, got, `>>> Control+o -> Log out (root)`)
	assert.Contains(t, got, ">>> F13 is not bound.")
	assert.Contains(t, got, "Control+s: project.save shadows root.logout")
	assert.Contains(t, got, ">>> save remapped to Control+w.")
	assert.Contains(t, got, "save -> Control+w")
	assert.Contains(t, got, ">>> Action nope not found in context project.")
	assert.Contains(t, got, ">>> Unknown command :bogus.")
	assert.Equal(t, 2, strings.Count(got, `handler "logout" invoked`), "Control+s falls through to logout after the remap")

	// The remapping survives in the file store.
	again, closer2, err := CreateEngine(ctx, opts, logging.NewNop(), &out)
	require.NoError(t, err)
	defer closer2.Close()
	assert.Equal(t, []domain.Remapping{{Action: "save", Mapping: "Control+w"}}, again.CurrentRemapping())
}

func TestConsole_FocusClearAndRevert(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	opts := newTestEngineOptions(t)
	opts.Store = StoreMemory

	engine, closer, err := CreateEngine(ctx, opts, logging.NewNop(), &out)
	require.NoError(t, err)
	defer closer.Close()

	console := NewConsole(engine, strings.NewReader(":remap root logout F2\n:remap root logout\n:focus\n:stack\n"), &out)
	require.NoError(t, console.Run(ctx))

	got := out.String()
	assert.Contains(t, got, ">>> logout reverted to Control+s, Control+o.")
	assert.Contains(t, got, "Context stack is empty.")
}

func TestConsole_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	engine, closer, err := CreateEngine(context.Background(), Options{Store: StoreMemory}, logging.NewNop(), &out)
	require.NoError(t, err)
	defer closer.Close()

	console := NewConsole(engine, strings.NewReader("Control+s\n"), &out)
	assert.NoError(t, console.Run(ctx))
	assert.NotContains(t, out.String(), "Control+s")
}

func TestCreateEngine_BadSource(t *testing.T) {
	_, _, err := CreateEngine(context.Background(), Options{Source: "/nonexistent/keys.yaml", Store: StoreMemory}, logging.NewNop(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSignalContext(t *testing.T) {
	t.Run("cancel", func(t *testing.T) {
		sc := NewSignalContext(context.Background())
		sc.Cancel()
		<-sc.Done()
		assert.Nil(t, sc.Signal())
	})

	t.Run("sigterm", func(t *testing.T) {
		sc := NewSignalContext(context.Background())
		defer sc.Cancel()

		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
		select {
		case <-sc.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("context not cancelled by SIGTERM")
		}
		assert.Equal(t, syscall.SIGTERM, sc.Signal())
	})
}
