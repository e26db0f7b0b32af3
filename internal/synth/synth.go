// Package synth materializes a compiled target table as persisted state
// variables and installed activation reactions.
package synth

import (
	"context"
	"log/slog"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// Synthesizer turns a target table into host mutations: one state variable
// per instance, bound as the live source of its property, and one click
// reaction per instance carrying the full multi-assignment effect list.
type Synthesizer struct {
	scene  ports.Scene
	vars   ports.VariableStore
	logger *slog.Logger
}

// New creates a synthesizer. A nil logger falls back to no-op.
func New(scene ports.Scene, vars ports.VariableStore, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synthesizer{scene: scene, vars: vars, logger: logger}
}

// Materialize installs the interaction on its group. table may be nil when no
// variant property resolved: reactions then degrade to recorded but inert
// click targets.
//
// Host mutation failures are caught per instance, logged, and skipped; the
// rest of the group proceeds. Returns the number of variables created.
func (s *Synthesizer) Materialize(ctx context.Context, interaction *domain.Interaction, group *domain.Group, table *domain.TargetTable) (int, error) {
	created, err := s.createMarkers(ctx, interaction)
	if err != nil {
		return created, err
	}

	var stateVars []domain.Variable
	if table != nil {
		var n int
		stateVars, n = s.createAndBind(ctx, interaction, group, table)
		created += n
	}

	// Clearing must complete for all instances before any new reaction is
	// installed, so two interactions' reactions never coexist.
	for i, inst := range group.Instances {
		if err := s.scene.SetReactions(ctx, inst.NodeID, nil); err != nil {
			s.logger.Error("failed to clear reactions", "instance", i+1, "node", inst.NodeID, "err", err)
		}
	}

	for i, inst := range group.Instances {
		reaction := domain.Reaction{Trigger: domain.TriggerClick, Actions: []domain.SetVariable{}}
		if table != nil && len(stateVars) > 0 {
			reaction.Actions = effectList(i, stateVars, table)
		}
		if err := s.scene.SetReactions(ctx, inst.NodeID, []domain.Reaction{reaction}); err != nil {
			s.logger.Error("failed to apply reaction", "instance", i+1, "node", inst.NodeID, "err", err)
		}
	}

	return created, nil
}

// createMarkers creates the boolean markers recording the interaction's shape:
// one for the primary transition, one per conditional rule.
func (s *Synthesizer) createMarkers(ctx context.Context, interaction *domain.Interaction) (int, error) {
	created := 0
	if _, err := s.vars.CreateBool(ctx, domain.PrimaryVariableName(interaction.ID), false); err != nil {
		return created, err
	}
	created++
	for n := range interaction.ConditionalRules {
		if _, err := s.vars.CreateBool(ctx, domain.ConditionalVariableName(interaction.ID, n), false); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// createAndBind creates one string state variable per instance, seeded with
// the captured original, and binds it as the live source of the instance's
// property. A failed bind leaves that instance on its original static value.
func (s *Synthesizer) createAndBind(ctx context.Context, interaction *domain.Interaction, group *domain.Group, table *domain.TargetTable) ([]domain.Variable, int) {
	created := 0
	stateVars := make([]domain.Variable, len(group.Instances))
	for i, inst := range group.Instances {
		name := domain.InstanceVariableName(interaction.ID, i, table.Property)
		variable, err := s.vars.CreateString(ctx, name, table.Original[i])
		if err != nil {
			s.logger.Error("failed to create state variable", "instance", i+1, "name", name, "err", err)
			continue
		}
		created++
		stateVars[i] = variable

		if err := s.scene.BindProperty(ctx, inst.NodeID, table.Property, variable.ID); err != nil {
			s.logger.Error("failed to bind variable to instance", "instance", i+1, "node", inst.NodeID, "err", err)
		}
	}
	return stateVars, created
}

// effectList builds instance i's atomic multi-assignment: self first, then
// siblings in group order. Instances whose variable could not be created are
// left out.
func effectList(i int, stateVars []domain.Variable, table *domain.TargetTable) []domain.SetVariable {
	actions := make([]domain.SetVariable, 0, len(stateVars))
	if stateVars[i].ID != "" {
		actions = append(actions, domain.SetVariable{
			VariableID: stateVars[i].ID,
			Value:      table.Targets[i][i],
		})
	}
	for j := range stateVars {
		if j == i || stateVars[j].ID == "" {
			continue
		}
		actions = append(actions, domain.SetVariable{
			VariableID: stateVars[j].ID,
			Value:      table.Targets[i][j],
		})
	}
	return actions
}
