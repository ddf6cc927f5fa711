package tui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/phocus/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintActions writes an aligned table of actions, grouped by context, to w.
func PrintActions(w io.Writer, actions []domain.ActionSummary) {
	if len(actions) == 0 {
		fmt.Fprintln(w, termenv.String("No actions available.").Faint())
		return
	}

	p := termenv.ColorProfile()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	current := ""
	for i, a := range actions {
		if i == 0 || a.Context != current {
			current = a.Context
			header := a.Context
			if a.HasArgument {
				header += " (" + a.Argument + ")"
			}
			fmt.Fprintf(tw, "%s\t\t\n", termenv.String(header).Bold().Foreground(p.Color("#a78bfa")))
		}
		keys := termenv.String(formatKeys(a.Keys)).Foreground(p.Color("#f472b6"))
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", keys, a.Name, termenv.String(a.ShortDocumentation).Faint())
	}
	tw.Flush()
}

// PrintStack writes the context stack, innermost first, flagging unresolved ids.
func PrintStack(w io.Writer, stack []domain.ContextStackEntry, unresolved []string) {
	if len(stack) == 0 {
		fmt.Fprintln(w, termenv.String("Context stack is empty.").Faint())
		return
	}

	missing := make(map[string]bool, len(unresolved))
	for _, id := range unresolved {
		missing[id] = true
	}

	p := termenv.ColorProfile()
	for i, entry := range stack {
		line := entry.Context
		if entry.HasArgument {
			line += ": " + entry.Argument
		}
		out := termenv.String(line)
		if missing[entry.Context] {
			out = out.Foreground(p.Color("#fb7185")).Italic()
		}
		fmt.Fprintf(w, "%s%s", strings.Repeat("  ", i), out)
		if missing[entry.Context] {
			fmt.Fprint(w, termenv.String(" (unregistered)").Faint())
		}
		fmt.Fprintln(w)
	}
}

func formatKeys(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return strings.Join(keys, ", ")
}
