package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/phocus/pkg/domain"
)

// Source is what the diagram needs from an engine.
type Source interface {
	ContextStack() []domain.ContextStackEntry
	Context(id string) (domain.ContextBlueprint, bool)
	EffectiveKeys(a *domain.Action) []string
}

// StackNode is one stack entry annotated for display.
type StackNode struct {
	Context     string
	Argument    string
	HasArgument bool
	Resolved    bool
	Opaque      bool
	// Hidden marks entries outside the first opaque context.
	Hidden  bool
	Actions []string
}

// BuildStack annotates the current stack of src, innermost first.
func BuildStack(src Source) []StackNode {
	stack := src.ContextStack()
	nodes := make([]StackNode, 0, len(stack))
	hidden := false

	for _, entry := range stack {
		node := StackNode{
			Context:     entry.Context,
			Argument:    entry.Argument,
			HasArgument: entry.HasArgument,
			Hidden:      hidden,
		}
		if bp, ok := src.Context(entry.Context); ok {
			node.Resolved = true
			node.Opaque = bp.Opaque
			for _, a := range bp.Actions {
				label := a.Action.Name()
				if keys := src.EffectiveKeys(a.Action); len(keys) > 0 {
					label += " (" + strings.Join(keys, ", ") + ")"
				}
				node.Actions = append(node.Actions, label)
			}
			if bp.Opaque {
				hidden = true
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// GenerateMermaid produces a Mermaid flowchart of the stack, innermost at the bottom.
// It applies semantic styling:
// - Opaque: [[Subroutine]]
// - Unresolved: [/Parallelogram/]
// - Default: [Rectangle]
// Entries cut off by an opaque context are linked with dotted arrows and greyed out.
func GenerateMermaid(nodes []StackNode) string {
	var sb strings.Builder
	sb.WriteString("graph BT\n")

	for i, node := range nodes {
		safeID := fmt.Sprintf("n%d_%s", i, sanitizeMermaidID(node.Context))

		opener, closer := "[", "]"
		switch {
		case !node.Resolved:
			opener, closer = "[/", "/]"
		case node.Opaque:
			opener, closer = "[[", "]]"
		}

		label := node.Context
		if node.HasArgument {
			label += ": " + node.Argument
		}
		for _, a := range node.Actions {
			label += "<br/>" + a
		}
		label = strings.ReplaceAll(label, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if i+1 < len(nodes) {
			next := fmt.Sprintf("n%d_%s", i+1, sanitizeMermaidID(nodes[i+1].Context))
			arrow := "-->"
			if nodes[i+1].Hidden {
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, next))
		}
	}

	sb.WriteString("\n    %% Styles\n")
	sb.WriteString("    classDef opaque fill:#ede9fe,stroke:#7c3aed,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef hidden fill:#f3f4f6,stroke:#9ca3af,color:#6b7280;\n")
	sb.WriteString("    classDef unresolved fill:#fee2e2,stroke:#dc2626,stroke-dasharray:4,color:#000;\n")

	for i, node := range nodes {
		safeID := fmt.Sprintf("n%d_%s", i, sanitizeMermaidID(node.Context))
		switch {
		case node.Hidden:
			sb.WriteString(fmt.Sprintf("    class %s hidden;\n", safeID))
		case !node.Resolved:
			sb.WriteString(fmt.Sprintf("    class %s unresolved;\n", safeID))
		case node.Opaque:
			sb.WriteString(fmt.Sprintf("    class %s opaque;\n", safeID))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
