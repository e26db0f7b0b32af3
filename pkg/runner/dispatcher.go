package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Dispatcher maps inbound protocol envelopes to engine operations and collects
// the outbound envelopes. It is transport-agnostic: the stdio Runner and the
// HTTP adapter both drive it.
type Dispatcher struct {
	engine *tendril.Engine
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil logger falls back to discard.
func NewDispatcher(engine *tendril.Engine, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{engine: engine, logger: logger}
}

// Dispatch handles one inbound envelope. done is true when the session should
// terminate (cancel message). Failures never escape: every error becomes a
// single error envelope with a human-readable cause.
func (d *Dispatcher) Dispatch(ctx context.Context, env domain.Envelope) (replies []domain.Envelope, done bool) {
	switch env.Type {
	case domain.MsgInit:
		return d.analyze(ctx), false

	case domain.MsgCreateInteraction:
		return d.createInteraction(ctx, env.Data), false

	case domain.MsgGetComponents:
		return []domain.Envelope{{
			Type: domain.MsgComponentsData,
			Data: d.engine.Components(),
		}}, false

	case domain.MsgCleanup:
		removed, err := d.engine.Cleanup(ctx)
		if err != nil {
			return errorEnvelope("Cleanup failed", err), false
		}
		d.logger.Debug("cleanup complete", "removed", removed)
		return []domain.Envelope{{
			Type:    domain.MsgCleanupComplete,
			Message: "Comprehensive cleanup completed successfully",
		}}, false

	case domain.MsgCleanupStoredData:
		if err := d.engine.PurgeStored(ctx); err != nil {
			return errorEnvelope("Cleanup failed", err), false
		}
		return []domain.Envelope{{
			Type:    domain.MsgCleanupComplete,
			Message: "Stored interaction data cleaned up successfully",
		}}, false

	case domain.MsgCancel:
		return nil, true

	default:
		d.logger.Debug("unknown message type", "type", env.Type)
		return nil, false
	}
}

// Reanalyze runs selection analysis outside of an explicit init message,
// typically after a selection-change signal.
func (d *Dispatcher) Reanalyze(ctx context.Context) []domain.Envelope {
	return d.analyze(ctx)
}

func (d *Dispatcher) analyze(ctx context.Context) []domain.Envelope {
	result, err := d.engine.Analyze(ctx)
	if err != nil {
		return errorEnvelope("Initialization failed", err)
	}
	return []domain.Envelope{{Type: domain.MsgInitSuccess, Data: result}}
}

func (d *Dispatcher) createInteraction(ctx context.Context, data any) []domain.Envelope {
	var interaction domain.Interaction
	if err := mapstructure.Decode(data, &interaction); err != nil {
		return errorEnvelope("Failed to create interaction", err)
	}
	if interaction.ID == "" {
		interaction.ID = domain.NewInteractionID(time.Now())
	}

	groupName, err := d.engine.CreateInteraction(ctx, &interaction)
	if err != nil {
		return errorEnvelope("Failed to create interaction", err)
	}
	return []domain.Envelope{{
		Type:    domain.MsgInteractionCreated,
		Message: fmt.Sprintf("Interaction created successfully for %s", groupName),
	}}
}

func errorEnvelope(context string, err error) []domain.Envelope {
	return []domain.Envelope{{
		Type:    domain.MsgError,
		Message: fmt.Sprintf("%s: %s", context, err),
	}}
}
