package tendril

import (
	"context"
	"log/slog"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/pipeline"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/observability"
	"github.com/aretw0/tendril/pkg/ports"
)

// Engine is the high-level entry point for the Tendril library.
// It wraps the internal pipeline and provides a simplified API for consumers.
type Engine struct {
	session *pipeline.Session
	scene   ports.Scene
	backend ports.StorageBackend
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStorageBackend injects the persistence backend for authored
// interactions. Defaults to an in-memory store.
func WithStorageBackend(backend ports.StorageBackend) Option {
	return func(e *Engine) {
		e.backend = backend
	}
}

// WithMetrics wires pipeline metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// New initializes a Tendril Engine over the host's scene graph and variable
// store boundaries.
func New(scene ports.Scene, vars ports.VariableStore, opts ...Option) *Engine {
	eng := &Engine{
		scene:  scene,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.backend == nil {
		eng.backend = memory.NewStore()
	}

	eng.session = pipeline.NewSession(scene, vars, eng.backend,
		pipeline.WithLogger(eng.logger),
		pipeline.WithMetrics(eng.metrics),
	)
	return eng
}

// Analyze re-runs selection analysis: validation, grouping, and stored
// interaction lookup.
func (e *Engine) Analyze(ctx context.Context) (*domain.InitSuccess, error) {
	return e.session.Analyze(ctx)
}

// CreateInteraction runs the full authoring pipeline for one interaction.
// Returns the display name of the group it was installed on.
func (e *Engine) CreateInteraction(ctx context.Context, interaction *domain.Interaction) (string, error) {
	return e.session.CreateInteraction(ctx, interaction)
}

// Components returns the group list from the last analysis.
func (e *Engine) Components() []domain.Group {
	return e.session.Components()
}

// Cleanup sweeps orphaned managed variables. Returns how many were removed.
func (e *Engine) Cleanup(ctx context.Context) (int, error) {
	return e.session.Cleanup(ctx)
}

// PurgeStored deletes persisted interaction records for the current groups.
func (e *Engine) PurgeStored(ctx context.Context) error {
	return e.session.PurgeStored(ctx)
}

// Watch exposes the scene's selection-change signal when the host supports it.
// Returns (nil, false) otherwise.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, bool) {
	watchable, ok := e.scene.(ports.Watchable)
	if !ok {
		return nil, false
	}
	ch, err := watchable.Watch(ctx)
	if err != nil {
		e.logger.Warn("scene watch unavailable", "err", err)
		return nil, false
	}
	return ch, true
}
