// Package graph renders compiled interactions as Mermaid diagrams.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of one compiled interaction:
// a node per instance, labeled with its name and captured state, and an edge
// per click effect annotated with the value the click assigns. Self effects
// use a solid arrow, sibling effects a dotted one.
func GenerateMermaid(group *domain.Group, table *domain.TargetTable) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, inst := range group.Instances {
		safeID := sanitizeMermaidID(inst.NodeID)
		name := inst.Name
		if name == "" {
			name = inst.NodeID
		}
		label := name
		if table != nil && i < len(table.Original) {
			label = fmt.Sprintf("%s <br/> %s=%s", name, table.Property, table.Original[i])
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, escapeMermaidLabel(label)))
	}

	if table == nil {
		return sb.String()
	}

	for i, from := range group.Instances {
		safeFrom := sanitizeMermaidID(from.NodeID)
		for j, to := range group.Instances {
			if i >= len(table.Targets) || j >= len(table.Targets[i]) {
				continue
			}
			target := table.Targets[i][j]
			safeTo := sanitizeMermaidID(to.NodeID)
			if i == j {
				sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeFrom, escapeMermaidLabel(target), safeTo))
				continue
			}
			// Sibling effects that leave the state unchanged add noise, skip.
			if j < len(table.Original) && target == table.Original[j] {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", safeFrom, escapeMermaidLabel(target), safeTo))
		}
	}

	return sb.String()
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "_", ";", "_")
	return replacer.Replace(id)
}
