package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Phocus ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ____  _                           ", "#818cf8"},
		{" |  _ \\| |__   ___   ___ _   _ ___ ", "#a78bfa"},
		{" | |_) | '_ \\ / _ \\ / __| | | / __|", "#c084fc"},
		{" |  __/| | | | (_) | (__| |_| \\__ \\", "#e879f9"},
		{" |_|   |_| |_|\\___/ \\___|\\__,_|___/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, " %s\n\n", termenv.String("v"+version).Faint())
}
