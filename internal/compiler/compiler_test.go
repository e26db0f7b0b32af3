package compiler_test

import (
	"testing"

	"github.com/aretw0/tendril/internal/compiler"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buttonGroup builds a 3-instance group over a State variant property with the
// given current values.
func buttonGroup(states ...string) *domain.Group {
	g := &domain.Group{ID: "set:button", Name: "Button"}
	for i, s := range states {
		g.Instances = append(g.Instances, domain.Instance{
			NodeID:     string(rune('a' + i)),
			Name:       "Button " + string(rune('A'+i)),
			Properties: map[string]string{"State": s},
		})
	}
	g.AddPropertyValue("State", "default")
	g.AddPropertyValue("State", "hover")
	g.AddPropertyValue("State", "active")
	return g
}

func TestCompile_ActivatingInstanceGetsPrimaryValue(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("default", "hover", "active")

	table, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
	}, group, "State")
	require.NoError(t, err)

	for i := range group.Instances {
		assert.Equal(t, "active", table.Targets[i][i], "clicked instance %d must take the primary value", i)
	}
}

func TestCompile_NoRulesSiblingsKeepCompileTimeValue(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("hover", "active", "default")

	table, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
	}, group, "State")
	require.NoError(t, err)

	// No conditional rule matches and no main reset exists: every sibling
	// falls back to its captured original.
	assert.Equal(t, []string{"hover", "active", "default"}, table.Original)
	assert.Equal(t, "active", table.Targets[0][1], "sibling already at active stays there via original")
	assert.Equal(t, "default", table.Targets[0][2])
	assert.Equal(t, "hover", table.Targets[1][0])
}

func TestCompile_WorkedExample(t *testing.T) {
	// Group of 3, primary State=active, one rule "State=hover -> RESET_TO_INITIAL".
	// A clicked -> active. B currently hover -> its captured original. C at
	// default with no matching rule and no main reset -> stays default.
	c := compiler.New(nil)
	group := buttonGroup("default", "hover", "default")

	table, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
		ConditionalRules: []domain.ConditionalRule{
			{ID: 1, Condition: "State=hover", Action: domain.ResetToInitial},
		},
	}, group, "State")
	require.NoError(t, err)

	assert.Equal(t, "active", table.Targets[0][0])
	assert.Equal(t, "default", table.Targets[0][1], "hover sibling resets to its original")
	assert.Equal(t, "default", table.Targets[0][2])
}

func TestCompile_SpecificRuleBeatsMainReset(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("active", "hover", "default")

	table, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
		ConditionalRules: []domain.ConditionalRule{
			// Main reset: condition equals the primary value.
			{ID: 1, Condition: "State=active", Action: "State=default"},
			// Specific rule for hover.
			{ID: 2, Condition: "State=hover", Action: "State=active"},
		},
	}, group, "State")
	require.NoError(t, err)

	// Sibling 0 is at active: the main reset rule is also its specific rule.
	assert.Equal(t, "default", table.Targets[1][0])
	// Sibling 1 at hover: specific rule wins over main reset.
	assert.Equal(t, "active", table.Targets[0][1])
	// Sibling 2 at default: no specific rule, main reset applies.
	assert.Equal(t, "default", table.Targets[0][2])
}

func TestCompile_MainResetToInitial(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("hover", "default", "active")

	table, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
		ConditionalRules: []domain.ConditionalRule{
			{ID: 1, Condition: "State=active", Action: domain.ResetToInitial},
		},
	}, group, "State")
	require.NoError(t, err)

	// Every sibling without a specific rule resets to its original.
	assert.Equal(t, "hover", table.Targets[1][0])
	assert.Equal(t, "default", table.Targets[0][1])
	assert.Equal(t, "active", table.Targets[0][2], "sibling at active matches the main reset rule directly")
}

func TestCompile_MalformedRulesAreInert(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("default", "hover", "active")

	base := &domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
		ConditionalRules: []domain.ConditionalRule{
			{ID: 1, Condition: "State=hover", Action: "State=default"},
		},
	}
	clean, err := c.Compile(base, group, "State")
	require.NoError(t, err)

	withNoise := &domain.Interaction{
		ID:            base.ID,
		Component:     base.Component,
		PrimaryAction: base.PrimaryAction,
		ConditionalRules: append([]domain.ConditionalRule{
			{ID: 2, Condition: "hover", Action: "State=default"},      // condition missing '='
			{ID: 3, Condition: "State=active", Action: "garbage"},     // malformed action
			{ID: 4, Condition: "Size=large", Action: "State=default"}, // cross-property condition
			{ID: 5, Condition: "State=default", Action: "Size=small"}, // cross-property action
		}, base.ConditionalRules...),
	}
	noisy, err := c.Compile(withNoise, group, "State")
	require.NoError(t, err)

	assert.Equal(t, clean.Targets, noisy.Targets, "inert rules must not change any computed target")
}

func TestCompile_Idempotence(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("default", "hover", "active")
	interaction := &domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
		ConditionalRules: []domain.ConditionalRule{
			{ID: 1, Condition: "State=hover", Action: domain.ResetToInitial},
		},
	}

	first, err := c.Compile(interaction, group, "State")
	require.NoError(t, err)
	second, err := c.Compile(interaction, group, "State")
	require.NoError(t, err)

	assert.Equal(t, first, second, "compiling twice without edits must yield identical tables")
}

func TestCompile_CaseInsensitivePropertyMatching(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("default", "hover", "active")

	table, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
		ConditionalRules: []domain.ConditionalRule{
			{ID: 1, Condition: "state=hover", Action: "STATE=default"},
		},
	}, group, "State")
	require.NoError(t, err)

	assert.Equal(t, "default", table.Targets[0][1], "condition and action property names match case-insensitively")
}

func TestCompile_SingleInstanceGroup(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("default")

	table, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "State=active",
	}, group, "State")
	require.NoError(t, err)

	require.Len(t, table.Targets, 1)
	assert.Equal(t, "active", table.Targets[0][0])
}

func TestCompile_RejectsMalformedPrimary(t *testing.T) {
	c := compiler.New(nil)
	group := buttonGroup("default")

	_, err := c.Compile(&domain.Interaction{
		ID:            "ixn_1",
		Component:     group.ID,
		PrimaryAction: "active",
	}, group, "State")
	assert.Error(t, err)
}

func TestNestedInteraction(t *testing.T) {
	c := compiler.New(nil)
	parent := &domain.Interaction{
		ID:            "ixn_1",
		Component:     "set:button",
		PrimaryAction: "State=active",
		ConditionalRules: []domain.ConditionalRule{
			{ID: 1, Condition: "State=hover", Action: domain.ResetToInitial},
		},
	}

	nested := c.NestedInteraction(parent, domain.NestedAction{Component: "set:badge", Action: "Visible=on"})

	assert.Equal(t, "ixn_1_nested_set:badge", nested.ID)
	assert.Equal(t, "set:badge", nested.Component)
	assert.Equal(t, "Visible=on", nested.PrimaryAction)
	assert.Empty(t, nested.ConditionalRules, "synthetic interactions carry no conditional rules")
}
