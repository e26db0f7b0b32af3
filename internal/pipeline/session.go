// Package pipeline orchestrates the analysis and authoring runs:
// Grouper → Resolver → Compiler → Synthesizer → Store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tendril/internal/compiler"
	"github.com/aretw0/tendril/internal/grouper"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/resolver"
	"github.com/aretw0/tendril/internal/store"
	"github.com/aretw0/tendril/internal/synth"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/observability"
	"github.com/aretw0/tendril/pkg/ports"
)

// Session carries one editing session's request-scoped state: the groups from
// the last analysis and the single-flight pipeline token. There is no other
// shared mutable state; the variable namespace and reaction set are only ever
// touched from inside a run.
type Session struct {
	scene    ports.Scene
	vars     ports.VariableStore
	store    *store.Store
	grouper  *grouper.Grouper
	compiler *compiler.Compiler
	synth    *synth.Synthesizer
	logger   *slog.Logger
	metrics  *observability.Metrics

	// flight rejects overlapping runs instead of queueing them: the host is
	// cooperatively scheduled and the pipeline must never be re-entered.
	flight sync.Mutex

	mu       sync.RWMutex
	groups   []domain.Group
	selected string
}

// Option configures the Session.
type Option func(*Session)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics wires pipeline metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Session) {
		s.metrics = metrics
	}
}

// NewSession wires the pipeline over the injected host boundaries.
func NewSession(scene ports.Scene, vars ports.VariableStore, backend ports.StorageBackend, opts ...Option) *Session {
	s := &Session{
		scene:  scene,
		vars:   vars,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.store = store.New(backend, vars, scene, s.logger)
	s.grouper = grouper.New(scene, s.logger)
	s.compiler = compiler.New(s.logger)
	s.synth = synth.New(scene, vars, s.logger)
	return s
}

// acquire claims the single-flight token or fails with ErrPipelineBusy.
func (s *Session) acquire() (release func(), err error) {
	if !s.flight.TryLock() {
		return nil, domain.ErrPipelineBusy
	}
	return s.flight.Unlock, nil
}

// Analyze validates the current selection, groups its nested instances, and
// loads any stored interactions for display. No mutation happens here.
func (s *Session) Analyze(ctx context.Context) (result *domain.InitSuccess, err error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	defer func() { s.metrics.ObserveRun("analyze", err) }()

	selection, err := s.scene.Selection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}
	if len(selection) != 1 {
		return nil, domain.ErrNoSelection
	}
	selected := selection[0]
	if selected.Kind != ports.NodeInstance {
		return nil, domain.ErrNotInstance
	}

	instances, err := s.grouper.FindNestedInstances(ctx, selected.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to scan nested instances: %w", err)
	}
	if len(instances) == 0 {
		return nil, domain.ErrNoNestedInstances
	}

	groups, err := s.grouper.GroupInstances(ctx, instances)
	if err != nil {
		return nil, fmt.Errorf("failed to group instances: %w", err)
	}

	existing, err := s.store.Existing(ctx, groups)
	if err != nil {
		// Storage failure degrades to "no stored interactions"; the scene
		// analysis itself is still valid.
		s.logger.Error("failed to load stored interactions", "err", err)
		existing = map[string]domain.Interaction{}
		err = nil
	}

	s.mu.Lock()
	s.groups = groups
	s.selected = selected.Name
	s.mu.Unlock()

	return &domain.InitSuccess{
		SelectedInstance:     selected.Name,
		Components:           groups,
		ExistingInteractions: existing,
	}, nil
}

// Components returns the groups from the last analysis.
func (s *Session) Components() []domain.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Group(nil), s.groups...)
}

func (s *Session) findGroup(groupID string) (*domain.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.groups {
		if s.groups[i].ID == groupID {
			g := s.groups[i]
			return &g, true
		}
	}
	return nil, false
}

// CreateInteraction runs the full authoring pipeline: persist (retiring any
// previous interaction for the group), compile the target table, and
// materialize variables and reactions. Returns the group's display name.
func (s *Session) CreateInteraction(ctx context.Context, interaction *domain.Interaction) (groupName string, err error) {
	release, err := s.acquire()
	if err != nil {
		return "", err
	}
	defer release()
	defer func() { s.metrics.ObserveRun("create-interaction", err) }()

	if _, ok := interaction.Primary(); !ok {
		return "", fmt.Errorf("primary action %q is not a prop=value pair", interaction.PrimaryAction)
	}
	group, ok := s.findGroup(interaction.Component)
	if !ok {
		return "", fmt.Errorf("unknown component %s: run analysis first", interaction.Component)
	}

	// Storage failure must not block reaction synthesis; scene state and
	// stored state may diverge. Accepted risk.
	if err := s.store.Put(ctx, interaction); err != nil {
		s.logger.Error("failed to store interaction", "interaction", interaction.ID, "err", err)
	}

	if err := s.apply(ctx, interaction, group); err != nil {
		return "", err
	}

	for _, nested := range interaction.NestedActions {
		target, ok := s.findGroup(nested.Component)
		if !ok {
			s.logger.Debug("skipping nested action for unknown component", "component", nested.Component)
			continue
		}
		synthetic := s.compiler.NestedInteraction(interaction, nested)
		if _, ok := synthetic.Primary(); !ok {
			s.logger.Debug("skipping malformed nested action", "action", nested.Action)
			continue
		}
		if err := s.apply(ctx, synthetic, target); err != nil {
			s.logger.Error("failed to apply nested action", "component", nested.Component, "err", err)
		}
	}

	return group.Name, nil
}

// apply resolves, compiles, and materializes one interaction over one group.
func (s *Session) apply(ctx context.Context, interaction *domain.Interaction, group *domain.Group) error {
	primary, _ := interaction.Primary()

	resolution, err := resolver.Resolve(ctx, s.scene, primary.Property, group)
	if err != nil {
		return fmt.Errorf("failed to resolve variant property: %w", err)
	}

	// No variant property is not an error: the group still gets recorded,
	// inert click targets.
	var table *domain.TargetTable
	if resolution.IsVariant {
		started := time.Now()
		table, err = s.compiler.Compile(interaction, group, resolution.Property)
		if err != nil {
			return err
		}
		s.metrics.ObserveCompile(time.Since(started))
	}

	created, err := s.synth.Materialize(ctx, interaction, group, table)
	s.metrics.AddVariablesCreated(created)
	if err != nil {
		return fmt.Errorf("failed to materialize interaction: %w", err)
	}
	return nil
}

// Cleanup runs the global sweep over the managed variable namespace.
// Returns the number of orphaned variables removed.
func (s *Session) Cleanup(ctx context.Context) (removed int, err error) {
	release, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer release()
	defer func() { s.metrics.ObserveRun("cleanup", err) }()

	removed, err = s.store.Sweep(ctx)
	s.metrics.AddVariablesRemoved(removed)
	return removed, err
}

// PurgeStored deletes the persisted records for the current groups without
// touching variables.
func (s *Session) PurgeStored(ctx context.Context) (err error) {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	defer func() { s.metrics.ObserveRun("purge-stored", err) }()

	groups := s.Components()
	ids := make([]string, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.ID)
	}
	return s.store.PurgeAll(ctx, ids)
}

// Store exposes the interaction store for host integrations.
func (s *Session) Store() *store.Store {
	return s.store
}
