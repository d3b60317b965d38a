package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
)

// maxLabel bounds node labels, in runes.
const maxLabel = 32

// GenerateMermaid produces a Mermaid flowchart of a lesson sequence.
// Shapes:
// - Gated step: [/Parallelogram/] (waits for a variable)
// - Default: [Rectangle]
// Step edges are labeled with the gate key; auto-advance edges are dotted.
// Slide edges run both ways. When snap is set, items before the current
// step are styled completed and the current item active.
func GenerateMermaid(items []domain.Item, snap *domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i, item := range items {
		opener, closer := "[", "]"
		if s, ok := item.(domain.StepItem); ok && s.Gated() {
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%d. %s\"%s\n", nodeID(i), opener, i+1, label(item.Body()), closer))
	}

	for i := 0; i+1 < len(items); i++ {
		from, to := nodeID(i), nodeID(i+1)
		switch item := items[i].(type) {
		case domain.StepItem:
			arrow := "-->"
			if item.Gated() {
				key := strings.ReplaceAll(item.CompletionVarName, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", key)
				if item.AutoAdvance {
					arrow = fmt.Sprintf("-. \"auto: %s\" .->", key)
				}
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
		case domain.SlideItem:
			sb.WriteString(fmt.Sprintf("    %s <--> %s\n", from, to))
		}
	}

	if snap != nil && domain.InRange(snap.Current, len(items)) {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef completed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		if snap.Layout == domain.LayoutSteps {
			for i := 0; i < snap.Current; i++ {
				sb.WriteString(fmt.Sprintf("    class %s completed;\n", nodeID(i)))
			}
		}
		sb.WriteString(fmt.Sprintf("    class %s active;\n", nodeID(snap.Current)))
	}

	return sb.String()
}

func nodeID(i int) string {
	return fmt.Sprintf("item%d", i)
}

// label is the first non-empty line of body without markdown heading marks.
func label(body string) string {
	line := ""
	for _, l := range strings.Split(body, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.TrimSpace(strings.TrimLeft(line, "#"))
	line = strings.ReplaceAll(line, "\"", "'")
	if r := []rune(line); len(r) > maxLabel {
		line = string(r[:maxLabel-1]) + "…"
	}
	return line
}
