package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/internal/store"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
)

func newStore() (*store.Store, *memory.Variables, *memory.Scene) {
	vars := memory.NewVariables()
	scene := memory.NewScene(vars)
	return store.New(memory.NewStore(), vars, scene, nil), vars, scene
}

func TestPutGet_RoundTrip(t *testing.T) {
	s, _, _ := newStore()
	ctx := context.Background()

	interaction := &domain.Interaction{
		ID:            "ixn_1",
		Component:     "set_button",
		PrimaryAction: "State=Active",
		ConditionalRules: []domain.ConditionalRule{
			{ID: 1, Condition: "State=Active", Action: "State=Default"},
		},
	}
	require.NoError(t, s.Put(ctx, interaction))

	got, err := s.Get(ctx, "set_button")
	require.NoError(t, err)
	assert.Equal(t, interaction, got)
}

func TestGet_NotFound(t *testing.T) {
	s, _, _ := newStore()
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrInteractionNotFound)
}

func TestPut_RetiresPreviousInteraction(t *testing.T) {
	s, vars, _ := newStore()
	ctx := context.Background()

	// Variables owned by the old interaction, a nested composite included,
	// plus one belonging to a different interaction.
	_, err := vars.CreateBool(ctx, "ixn_old_primary", false)
	require.NoError(t, err)
	_, err = vars.CreateString(ctx, "ixn_old_instance_0_State", "Default")
	require.NoError(t, err)
	_, err = vars.CreateString(ctx, "ixn_old_nested_set_icon_instance_0_Kind", "Plain")
	require.NoError(t, err)
	keep, err := vars.CreateBool(ctx, "ixn_other_primary", false)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, &domain.Interaction{ID: "ixn_old", Component: "set_button", PrimaryAction: "State=Active"}))
	require.NoError(t, s.Put(ctx, &domain.Interaction{ID: "ixn_new", Component: "set_button", PrimaryAction: "State=Disabled"}))

	list, err := vars.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
	for _, v := range list {
		assert.False(t, strings.HasPrefix(v.Name, "ixn_old"))
	}

	got, err := s.Get(ctx, "set_button")
	require.NoError(t, err)
	assert.Equal(t, "ixn_new", got.ID)
}

func TestExisting_SkipsGroupsWithoutRecords(t *testing.T) {
	s, _, _ := newStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &domain.Interaction{ID: "ixn_1", Component: "set_button", PrimaryAction: "State=Active"}))

	existing, err := s.Existing(ctx, []domain.Group{{ID: "set_button"}, {ID: "set_icon"}})
	require.NoError(t, err)
	require.Len(t, existing, 1)
	assert.Equal(t, "ixn_1", existing["set_button"].ID)
}

func TestSweep_RemovesOrphans(t *testing.T) {
	s, vars, scene := newStore()
	ctx := context.Background()

	scene.AddInstance("btn1", "Button 1", "", "comp", nil)

	used, err := vars.CreateString(ctx, "ixn_1_instance_0_State", "Default")
	require.NoError(t, err)
	_, err = vars.CreateString(ctx, "ixn_dead_instance_0_State", "Default")
	require.NoError(t, err)

	require.NoError(t, scene.SetReactions(ctx, "btn1", []domain.Reaction{{
		Trigger: domain.TriggerClick,
		Actions: []domain.SetVariable{{VariableID: used.ID, Value: "Active"}},
	}}))

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	list, err := vars.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, used.ID, list[0].ID)
}

func TestSweep_EmptyNamespace(t *testing.T) {
	s, _, _ := newStore()
	removed, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestPurgeAll_DeletesRecordsOnly(t *testing.T) {
	s, vars, _ := newStore()
	ctx := context.Background()

	_, err := vars.CreateBool(ctx, "ixn_1_primary", false)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, &domain.Interaction{ID: "ixn_1", Component: "set_button", PrimaryAction: "State=Active"}))

	require.NoError(t, s.PurgeAll(ctx, []string{"set_button", "never_stored"}))

	_, err = s.Get(ctx, "set_button")
	assert.ErrorIs(t, err, domain.ErrInteractionNotFound)

	list, err := vars.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
