// Package store persists authored interactions keyed by group id and keeps
// the managed variable namespace consistent with them.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// KeyPrefix prefixes every persisted interaction record.
const KeyPrefix = "interaction_"

// Store is the interaction store: keyed persistence of the last-authored
// interaction per group, plus the two cleanup operations. Storage cleanup
// (PurgeAll) and live-binding cleanup (Sweep) are deliberately independent;
// they have different failure domains.
type Store struct {
	backend ports.StorageBackend
	vars    ports.VariableStore
	scene   ports.Scene
	logger  *slog.Logger
}

// New creates a store. A nil logger falls back to no-op.
func New(backend ports.StorageBackend, vars ports.VariableStore, scene ports.Scene, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{backend: backend, vars: vars, scene: scene, logger: logger}
}

func key(groupID string) string {
	return KeyPrefix + groupID
}

// Put persists an interaction for its group, first retiring any interaction
// previously stored there: all managed variables prefixed by the old id are
// removed (nested composites included) before the new record lands, so no two
// interactions' variables ever coexist for one group.
func (s *Store) Put(ctx context.Context, interaction *domain.Interaction) error {
	old, err := s.Get(ctx, interaction.Component)
	switch {
	case err == nil:
		if removed, err := s.Retire(ctx, old.ID); err != nil {
			s.logger.Error("failed to retire previous interaction", "interaction", old.ID, "err", err)
		} else if removed > 0 {
			s.logger.Debug("retired previous interaction", "interaction", old.ID, "variables", removed)
		}
	case err == domain.ErrInteractionNotFound:
		// First interaction for this group.
	default:
		s.logger.Error("failed to load previous interaction", "group", interaction.Component, "err", err)
	}

	data, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction: %w", err)
	}
	if err := s.backend.Set(ctx, key(interaction.Component), data); err != nil {
		return fmt.Errorf("failed to persist interaction: %w", err)
	}
	return nil
}

// Get returns the last persisted interaction for a group, or
// domain.ErrInteractionNotFound.
func (s *Store) Get(ctx context.Context, groupID string) (*domain.Interaction, error) {
	data, err := s.backend.Get(ctx, key(groupID))
	if err != nil {
		return nil, err
	}
	var interaction domain.Interaction
	if err := json.Unmarshal(data, &interaction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
	}
	return &interaction, nil
}

// Existing bulk-loads the stored interactions for a list of groups. Groups
// without a record are simply absent from the result.
func (s *Store) Existing(ctx context.Context, groups []domain.Group) (map[string]domain.Interaction, error) {
	existing := make(map[string]domain.Interaction)
	for _, group := range groups {
		interaction, err := s.Get(ctx, group.ID)
		if err == domain.ErrInteractionNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		existing[group.ID] = *interaction
	}
	return existing, nil
}

// Retire removes every managed variable owned by an interaction, identified
// by prefix match on the interaction id. Per-variable failures are logged and
// skipped. Returns the number of variables removed.
func (s *Store) Retire(ctx context.Context, interactionID string) (int, error) {
	variables, err := s.vars.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list managed variables: %w", err)
	}

	removed := 0
	for _, variable := range variables {
		if !strings.HasPrefix(variable.Name, interactionID) {
			continue
		}
		if err := s.vars.Remove(ctx, variable.ID); err != nil {
			s.logger.Error("failed to remove variable", "name", variable.Name, "err", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Sweep is the global consistency pass: any managed variable not referenced
// by at least one installed reaction is an orphan and gets deleted. Handles
// drift from manual edits or crashed partial writes. Returns the number of
// orphans removed.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	variables, err := s.vars.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list managed variables: %w", err)
	}
	if len(variables) == 0 {
		return 0, nil
	}

	reactions, err := s.scene.AllReactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate reactions: %w", err)
	}

	inUse := make(map[string]bool)
	for _, reaction := range reactions {
		for _, action := range reaction.Actions {
			inUse[action.VariableID] = true
		}
	}

	removed := 0
	for _, variable := range variables {
		if inUse[variable.ID] {
			continue
		}
		if err := s.vars.Remove(ctx, variable.ID); err != nil {
			s.logger.Error("failed to remove orphaned variable", "name", variable.Name, "err", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// PurgeAll deletes the persisted records for the given groups. Variables are
// untouched; that is Sweep's job.
func (s *Store) PurgeAll(ctx context.Context, groupIDs []string) error {
	for _, groupID := range groupIDs {
		if err := s.backend.Delete(ctx, key(groupID)); err != nil {
			return fmt.Errorf("failed to delete stored interaction for %s: %w", groupID, err)
		}
	}
	return nil
}
