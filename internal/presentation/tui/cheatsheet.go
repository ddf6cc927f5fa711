package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/phocus/pkg/domain"
)

// CheatSheet renders every context as a markdown section with a shortcut table.
func CheatSheet(title string, contexts []domain.ContextSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	for _, c := range contexts {
		name := c.Name
		if name == "" {
			name = c.ID
		}
		fmt.Fprintf(&sb, "## %s\n\n", name)
		if c.Opaque {
			sb.WriteString("> Opaque: shortcuts of enclosing contexts are unavailable here.\n\n")
		}
		if c.Documentation != "" {
			sb.WriteString(c.Documentation)
			sb.WriteString("\n\n")
		}
		if len(c.Actions) == 0 {
			sb.WriteString("_No actions._\n\n")
			continue
		}

		sb.WriteString("| Keys | Action | Description |\n")
		sb.WriteString("| --- | --- | --- |\n")
		for _, a := range c.Actions {
			keys := make([]string, len(a.Keys))
			for i, k := range a.Keys {
				keys[i] = "`" + k + "`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", escapeCell(strings.Join(keys, " ")), escapeCell(a.Name), escapeCell(a.ShortDocumentation))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
