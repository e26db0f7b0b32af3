package compiler

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
)

// Compiler derives, for every instance in a group, the state it must move to
// when any one instance is activated. The computation is pure: input is the
// interaction plus the group's property snapshot, output is a TargetTable.
type Compiler struct {
	logger *slog.Logger
}

// New creates a compiler. A nil logger falls back to no-op.
func New(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Compiler{logger: logger}
}

// Compile computes the target-state table for an interaction over its group.
// property is the canonical variant property name from the resolver.
//
// The group's instance snapshots serve two roles: they are the captured
// original states (anchoring reset-to-initial semantics for the life of the
// interaction) and the current values the conditional rules match against.
// Both are read from the same snapshot, taken once before any mutation;
// recompiling re-seeds the originals.
func (c *Compiler) Compile(interaction *domain.Interaction, group *domain.Group, property string) (*domain.TargetTable, error) {
	primary, ok := interaction.Primary()
	if !ok {
		return nil, fmt.Errorf("primary action %q is not a prop=value pair", interaction.PrimaryAction)
	}

	n := len(group.Instances)
	originals := make([]string, n)
	for j, inst := range group.Instances {
		originals[j] = inst.Properties[property]
	}

	rules := buildRuleLookup(interaction.ConditionalRules, primary, c.logger)

	targets := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, n)
		for j := 0; j < n; j++ {
			if i == j {
				// The activating instance always takes the primary value.
				row[j] = primary.Value
				continue
			}
			row[j] = resolveTarget(group.Instances[j].Properties[property], originals[j], rules)
		}
		targets[i] = row
	}

	return &domain.TargetTable{
		Property: property,
		Original: originals,
		Targets:  targets,
	}, nil
}

// NestedInteraction builds the synthetic single-rule interaction that drives a
// different group from the same activation. It carries no conditional rules
// and is scoped under a composite identity so retiring the parent retires it.
func (c *Compiler) NestedInteraction(parent *domain.Interaction, action domain.NestedAction) *domain.Interaction {
	return &domain.Interaction{
		ID:            parent.NestedID(action.Component),
		Component:     action.Component,
		PrimaryAction: action.Action,
	}
}

// ruleLookup indexes conditional rules by the sibling value their condition
// matches. mainReset is the rule whose condition equals the primary value; it
// acts as a default for siblings with no specific rule.
type ruleLookup struct {
	byValue   map[string]domain.RuleAction
	mainReset *domain.RuleAction
}

func buildRuleLookup(rules []domain.ConditionalRule, primary domain.Assignment, logger *slog.Logger) ruleLookup {
	lookup := ruleLookup{byValue: make(map[string]domain.RuleAction)}

	for _, rule := range rules {
		cond, ok := domain.ParseAssignment(rule.Condition)
		if !ok {
			logger.Debug("skipping rule with malformed condition", "condition", rule.Condition)
			continue
		}
		if !cond.MatchesProperty(primary.Property) {
			// Rules are restricted to the primary property; anything else is inert.
			continue
		}

		action, ok := domain.ParseRuleAction(rule.Action)
		if !ok {
			logger.Debug("skipping rule with malformed action", "action", rule.Action)
			continue
		}
		if !action.Reset && !action.Assignment.MatchesProperty(primary.Property) {
			// Cross-property action: inert, falls through to the defaults.
			continue
		}

		lookup.byValue[cond.Value] = action
		if cond.Value == primary.Value {
			a := action
			lookup.mainReset = &a
		}
	}

	return lookup
}

// resolveTarget applies the precedence contract for one sibling:
// specific-state rule > global reset rule > captured original.
func resolveTarget(current, original string, rules ruleLookup) string {
	if action, ok := rules.byValue[current]; ok {
		if action.Reset {
			return original
		}
		return action.Assignment.Value
	}

	if rules.mainReset != nil {
		if rules.mainReset.Reset {
			return original
		}
		return rules.mainReset.Assignment.Value
	}

	return original
}
