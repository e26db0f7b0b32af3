package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendril/internal/presentation/graph"
	"github.com/aretw0/tendril/pkg/domain"
)

// AnalysisReport formats an analysis result as markdown for terminal
// rendering.
func AnalysisReport(result *domain.InitSuccess) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Analysis: %s\n\n", result.SelectedInstance)

	if len(result.Components) == 0 {
		sb.WriteString("No component groups found.\n")
		return sb.String()
	}

	for _, group := range result.Components {
		fmt.Fprintf(&sb, "## %s\n\n", group.Name)
		fmt.Fprintf(&sb, "- Instances: %d\n", len(group.Instances))
		for _, name := range group.PropertyNames {
			values := group.Properties[name]
			if len(values) == 0 {
				fmt.Fprintf(&sb, "- Property `%s`\n", name)
				continue
			}
			fmt.Fprintf(&sb, "- Property `%s`: %s\n", name, strings.Join(values, ", "))
		}
		if existing, ok := result.ExistingInteractions[group.ID]; ok {
			fmt.Fprintf(&sb, "- Stored interaction: `%s` (%s)\n", existing.ID, existing.PrimaryAction)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// InteractionReport formats a compiled interaction as markdown, including a
// Mermaid diagram of its click effects.
func InteractionReport(interaction *domain.Interaction, group *domain.Group, table *domain.TargetTable) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Interaction %s\n\n", interaction.ID)
	fmt.Fprintf(&sb, "- Group: %s\n", group.Name)
	fmt.Fprintf(&sb, "- Primary: `%s`\n", interaction.PrimaryAction)
	for _, rule := range interaction.ConditionalRules {
		fmt.Fprintf(&sb, "- When `%s` then `%s`\n", rule.Condition, rule.Action)
	}
	sb.WriteString("\n```mermaid\n")
	sb.WriteString(graph.GenerateMermaid(group, table))
	sb.WriteString("```\n")
	return sb.String()
}
