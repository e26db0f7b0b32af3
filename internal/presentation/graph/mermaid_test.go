package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/tendril/internal/presentation/graph"
	"github.com/aretw0/tendril/pkg/domain"
)

func TestGenerateMermaid_NodesAndEdges(t *testing.T) {
	group := &domain.Group{
		ID: "set_button",
		Instances: []domain.Instance{
			{NodeID: "1:1", Name: "Button 1"},
			{NodeID: "1:2", Name: "Button 2"},
		},
	}
	table := &domain.TargetTable{
		Property: "State",
		Original: []string{"Default", "Default"},
		Targets: [][]string{
			{"Active", "Default"},
			{"Default", "Active"},
		},
	}

	out := graph.GenerateMermaid(group, table)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `1_1["Button 1 <br/> State=Default"]`)
	assert.Contains(t, out, `1_1 -- "Active" --> 1_1`)
	// Sibling effects equal to the original are suppressed.
	assert.NotContains(t, out, `1_1 -. "Default" .-> 1_2`)
}

func TestGenerateMermaid_SiblingEdgeWhenStateChanges(t *testing.T) {
	group := &domain.Group{
		Instances: []domain.Instance{
			{NodeID: "a", Name: "A"},
			{NodeID: "b", Name: "B"},
		},
	}
	table := &domain.TargetTable{
		Property: "State",
		Original: []string{"Default", "Active"},
		Targets: [][]string{
			{"Active", "Default"},
			{"Default", "Active"},
		},
	}

	out := graph.GenerateMermaid(group, table)
	assert.Contains(t, out, `a -. "Default" .-> b`)
}

func TestGenerateMermaid_NilTable(t *testing.T) {
	group := &domain.Group{
		Instances: []domain.Instance{{NodeID: "a", Name: "A"}},
	}

	out := graph.GenerateMermaid(group, nil)
	assert.Contains(t, out, `a["A"]`)
	assert.NotContains(t, out, "-->")
}
