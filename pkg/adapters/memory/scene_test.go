package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

func TestScene_BoundPropertyTracksVariable(t *testing.T) {
	ctx := context.Background()
	vars := memory.NewVariables()
	scene := memory.NewScene(vars)

	scene.AddInstance("btn1", "Button 1", "", "comp_button", map[string]string{"State": "Default"})

	v, err := vars.CreateString(ctx, "grp_instance_0_State", "Default")
	require.NoError(t, err)
	require.NoError(t, scene.BindProperty(ctx, "btn1", "State", v.ID))

	props, err := scene.Properties(ctx, "btn1")
	require.NoError(t, err)
	assert.Equal(t, "Default", props["State"])

	require.NoError(t, vars.SetValue(ctx, v.ID, "Active"))

	props, err = scene.Properties(ctx, "btn1")
	require.NoError(t, err)
	assert.Equal(t, "Active", props["State"])
}

func TestScene_ClickAppliesReactionActions(t *testing.T) {
	ctx := context.Background()
	vars := memory.NewVariables()
	scene := memory.NewScene(vars)

	scene.AddInstance("btn1", "Button 1", "", "comp_button", map[string]string{"State": "Default"})
	v, err := vars.CreateString(ctx, "grp_instance_0_State", "Default")
	require.NoError(t, err)
	require.NoError(t, scene.BindProperty(ctx, "btn1", "State", v.ID))

	require.NoError(t, scene.SetReactions(ctx, "btn1", []domain.Reaction{{
		Trigger: domain.TriggerClick,
		Actions: []domain.SetVariable{{VariableID: v.ID, Value: "Active"}},
	}}))

	require.NoError(t, scene.Click(ctx, "btn1"))

	props, err := scene.Properties(ctx, "btn1")
	require.NoError(t, err)
	assert.Equal(t, "Active", props["State"])
}

func TestScene_MainComponentMissingDefinition(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene(memory.NewVariables())
	scene.AddInstance("orphan", "Orphan", "", "comp_gone", nil)

	comp, err := scene.MainComponent(ctx, "orphan")
	require.NoError(t, err)
	assert.Nil(t, comp)
}

func TestScene_WatchDeliversSignal(t *testing.T) {
	scene := memory.NewScene(memory.NewVariables())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := scene.Watch(ctx)
	require.NoError(t, err)

	scene.SignalSelectionChange()

	select {
	case <-ch:
	default:
		t.Fatal("expected a selection change signal")
	}
}

func TestScene_ChildrenPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	scene := memory.NewScene(memory.NewVariables())
	scene.AddNode("frame", "Frame", "FRAME", "")
	scene.AddInstance("a", "A", "frame", "comp", nil)
	scene.AddInstance("b", "B", "frame", "comp", nil)
	scene.AddInstance("c", "C", "frame", "comp", nil)

	children, err := scene.Children(ctx, "frame")
	require.NoError(t, err)
	ids := make([]string, len(children))
	for i, ref := range children {
		ids[i] = ref.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, ports.NodeInstance, children[0].Kind)
}

func TestVariables_CreateListRemove(t *testing.T) {
	ctx := context.Background()
	vars := memory.NewVariables()

	s, err := vars.CreateString(ctx, "grp_instance_0_State", "Default")
	require.NoError(t, err)
	assert.Equal(t, domain.VariableString, s.Kind)

	b, err := vars.CreateBool(ctx, "grp_primary", false)
	require.NoError(t, err)
	assert.Equal(t, domain.VariableBoolean, b.Kind)

	list, err := vars.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, s.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	require.NoError(t, vars.Remove(ctx, s.ID))
	list, err = vars.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}
