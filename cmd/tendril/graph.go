package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/compiler"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/internal/resolver"
	"github.com/aretw0/tendril/pkg/adapters/yamlscene"
	"github.com/aretw0/tendril/pkg/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Compile an interaction and print its click-effect diagram",
	Long: `Compiles a prop=value transition against a component group from the
scene document and prints the resulting click effects as a Mermaid diagram.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenePath, _ := cmd.Flags().GetString("scene")
		component, _ := cmd.Flags().GetString("component")
		action, _ := cmd.Flags().GetString("action")
		conditions, _ := cmd.Flags().GetStringArray("when")
		plain, _ := cmd.Flags().GetBool("plain")

		scene, vars, err := yamlscene.Load(scenePath)
		if err != nil {
			return fmt.Errorf("failed to load scene: %w", err)
		}

		engine := tendril.New(scene, vars, tendril.WithLogger(logging.NewNop()))
		if _, err := engine.Analyze(cmd.Context()); err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		var group *domain.Group
		for _, g := range engine.Components() {
			if g.ID == component || g.Name == component {
				group = &g
				break
			}
		}
		if group == nil {
			return fmt.Errorf("component %q not found in scene", component)
		}

		interaction := &domain.Interaction{
			ID:            domain.NewInteractionID(time.Now()),
			Component:     group.ID,
			PrimaryAction: action,
		}
		for i, cond := range conditions {
			// Each --when takes "condition->action".
			c, a, ok := splitRule(cond)
			if !ok {
				return fmt.Errorf("rule %q is not condition->action", cond)
			}
			interaction.ConditionalRules = append(interaction.ConditionalRules, domain.ConditionalRule{
				ID: i + 1, Condition: c, Action: a,
			})
		}

		primary, ok := interaction.Primary()
		if !ok {
			return fmt.Errorf("action %q is not a prop=value pair", action)
		}
		resolution, err := resolver.Resolve(cmd.Context(), scene, primary.Property, group)
		if err != nil {
			return err
		}

		var table *domain.TargetTable
		if resolution.IsVariant {
			table, err = compiler.New(nil).Compile(interaction, group, resolution.Property)
			if err != nil {
				return err
			}
		}

		report := tui.InteractionReport(interaction, group, table)
		if plain {
			fmt.Print(report)
			return nil
		}
		render := tui.NewRenderer()
		out, err := render(report)
		if err != nil {
			fmt.Print(report)
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

func splitRule(rule string) (condition, action string, ok bool) {
	for i := 0; i+1 < len(rule); i++ {
		if rule[i] == '-' && rule[i+1] == '>' {
			return rule[:i], rule[i+2:], true
		}
	}
	return "", "", false
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("component", "c", "", "Component group id or name")
	graphCmd.Flags().StringP("action", "t", "", "Primary transition as prop=value")
	graphCmd.Flags().StringArray("when", nil, "Conditional rule as condition->action (repeatable)")
	graphCmd.Flags().Bool("plain", false, "Print raw markdown without terminal styling")
	_ = graphCmd.MarkFlagRequired("component")
	_ = graphCmd.MarkFlagRequired("action")
}
