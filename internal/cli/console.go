package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/phocus"
	"github.com/aretw0/phocus/internal/presentation/tui"
	"github.com/aretw0/phocus/pkg/adapters/memory"
	"github.com/aretw0/phocus/pkg/domain"
	"golang.org/x/term"
)

const consoleHelp = `Type a chord (e.g. Control+s) to dispatch it, or a command:
  :focus <path>                   move focus, e.g. :focus root/project=big-arg/
  :stack                          show the context stack
  :actions [query]                list available actions, optionally filtered
  :conflicts                      show shadowed chords
  :remap <context> <action> [key] remap an action, or clear it without key
  :remappings                     show active remappings
  :help                           show this help
  :quit                           exit`

// Console reads chords and commands line by line and drives an engine.
type Console struct {
	engine *phocus.Engine
	in     io.Reader
	out    io.Writer
	prompt bool
}

// NewConsole creates a console on in and out. The prompt is shown only when
// in is an interactive terminal.
func NewConsole(engine *phocus.Engine, in io.Reader, out io.Writer) *Console {
	prompt := false
	if f, ok := in.(*os.File); ok {
		prompt = term.IsTerminal(int(f.Fd()))
	}
	return &Console{engine: engine, in: in, out: out, prompt: prompt}
}

// Run processes input until EOF, :quit or cancellation of ctx.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(NewInterruptibleReader(c.in, ctx.Done()))
	for {
		if c.prompt {
			fmt.Fprint(c.out, "> ")
		}
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil || errors.Is(err, errInterrupted) {
				return nil
			}
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := c.Execute(ctx, line); quit {
			return nil
		}
	}
}

// Execute handles a single line and reports whether the console should exit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		c.dispatch(line)
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(c.out, consoleHelp)
	case ":focus":
		path := ""
		if len(fields) > 1 {
			path = fields[1]
		}
		markers, err := ParseFocusPath(path)
		if err != nil {
			printSystemMessage(c.out, "Error: %v", err)
			return false
		}
		if leaf := memory.FromPath(markers); leaf != nil {
			c.engine.SetContext(leaf)
		} else {
			c.engine.SetContext(nil)
		}
		tui.PrintStack(c.out, c.engine.ContextStack(), c.engine.UnresolvedContexts())
	case ":stack":
		tui.PrintStack(c.out, c.engine.ContextStack(), c.engine.UnresolvedContexts())
	case ":actions":
		var actions []domain.ActionInContext
		if len(fields) > 1 {
			actions = c.engine.Search(strings.Join(fields[1:], " "))
		} else {
			actions = c.engine.AvailableActions()
		}
		tui.PrintActions(c.out, Summaries(c.engine, actions))
	case ":conflicts":
		conflicts := c.engine.Conflicts()
		if len(conflicts) == 0 {
			printSystemMessage(c.out, "No conflicts.")
		}
		for _, cf := range conflicts {
			shadowed := make([]string, len(cf.Shadowed))
			for i, s := range cf.Shadowed {
				shadowed[i] = s.Entry.Context + "." + s.ActionID
			}
			fmt.Fprintf(c.out, "%s: %s.%s shadows %s\n", cf.Chord, cf.Winner.Entry.Context, cf.Winner.ActionID, strings.Join(shadowed, ", "))
		}
	case ":remap":
		if len(fields) < 3 {
			printSystemMessage(c.out, "Usage: :remap <context> <action> [key]")
			return false
		}
		chord := ""
		if len(fields) > 3 {
			chord = fields[3]
		}
		c.remap(ctx, fields[1], fields[2], chord)
	case ":remappings":
		remappings := c.engine.CurrentRemapping()
		if len(remappings) == 0 {
			printSystemMessage(c.out, "No remappings.")
		}
		for _, r := range remappings {
			fmt.Fprintf(c.out, "%s -> %s\n", r.Action, r.Mapping)
		}
	default:
		printSystemMessage(c.out, "Unknown command %s. Type :help.", fields[0])
	}
	return false
}

func (c *Console) dispatch(chord string) {
	match, ok := c.engine.ActionForKeypress(chord)
	if !ok {
		printSystemMessage(c.out, "%s is not bound.", chord)
		return
	}
	printSystemMessage(c.out, "%s -> %s (%s)", chord, match.Action.Name(), match.Entry.Context)
	match.Action.ActOn()
}

func (c *Console) remap(ctx context.Context, contextID, actionID, chord string) {
	a, ok := c.engine.Action(contextID, actionID)
	if !ok {
		printSystemMessage(c.out, "Action %s not found in context %s.", actionID, contextID)
		return
	}
	if err := c.engine.RemapAction(ctx, a, chord); err != nil {
		printSystemMessage(c.out, "Error: %v", err)
		return
	}
	if chord == "" {
		printSystemMessage(c.out, "%s reverted to %s.", actionID, strings.Join(c.engine.EffectiveKeys(a), ", "))
		return
	}
	printSystemMessage(c.out, "%s remapped to %s.", actionID, chord)
}

// Summaries describes actions with their effective keys.
func Summaries(engine *phocus.Engine, actions []domain.ActionInContext) []domain.ActionSummary {
	out := make([]domain.ActionSummary, len(actions))
	for i, a := range actions {
		out[i] = domain.Summarize(a, engine.EffectiveKeys(a.Action))
	}
	return out
}

// ContextSummaries describes every registered context in registration order.
func ContextSummaries(engine *phocus.Engine) []domain.ContextSummary {
	ids := engine.Contexts()
	out := make([]domain.ContextSummary, 0, len(ids))
	for _, id := range ids {
		bp, _ := engine.Context(id)
		out = append(out, domain.SummarizeContext(id, bp, engine.EffectiveKeys))
	}
	return out
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

var errInterrupted = errors.New("interrupted")

// InterruptibleReader wraps an io.Reader (like os.Stdin) and checks for a cancellation signal.
type InterruptibleReader struct {
	base   io.Reader
	cancel <-chan struct{}
}

// NewInterruptibleReader wraps base so reads fail with errInterrupted once cancel is closed.
func NewInterruptibleReader(base io.Reader, cancel <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{
		base:   base,
		cancel: cancel,
	}
}

// Read implements io.Reader. A read already blocked in base returns only when
// base does; its data is discarded if cancel closed meanwhile.
func (r *InterruptibleReader) Read(p []byte) (n int, err error) {
	select {
	case <-r.cancel:
		return 0, errInterrupted
	default:
	}

	// Blocks until the underlying reader returns.
	n, err = r.base.Read(p)

	select {
	case <-r.cancel:
		return 0, errInterrupted
	default:
	}
	return n, err
}
