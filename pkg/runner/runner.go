// Package runner drives the Tendril engine over the JSON-lines message
// protocol: one envelope per line in, emitted envelopes per line out.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/domain"
)

// Runner handles the execution loop of the Tendril engine using provided IO.
// This allows for easy testing and integration with different frontends.
type Runner struct {
	// Input carries inbound envelopes, one JSON object per line.
	Input io.Reader

	// Output receives emitted envelopes, one JSON object per line.
	Output io.Writer

	// Logger is used for internal debug logging. If nil, a no-op logger is
	// used.
	Logger *slog.Logger

	mu      sync.Mutex // serializes writes from the loop and the watcher
	encoder *json.Encoder
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner() *Runner {
	return &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run executes the message loop until a cancel message, EOF, or context
// cancellation. If the scene is watchable, selection changes trigger a
// selection-changed notification followed by a fresh analysis.
func (r *Runner) Run(ctx context.Context, engine *tendril.Engine) error {
	if r.Input == nil {
		r.Input = os.Stdin
	}
	if r.Output == nil {
		r.Output = os.Stdout
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.encoder = json.NewEncoder(r.Output)

	dispatcher := NewDispatcher(engine, r.Logger)

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if ch, ok := engine.Watch(watchCtx); ok {
		go r.watchSelection(watchCtx, dispatcher, ch)
	}

	decoder := json.NewDecoder(r.Input)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var env domain.Envelope
		if err := decoder.Decode(&env); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode message: %w", err)
		}

		replies, done := dispatcher.Dispatch(ctx, env)
		if err := r.emit(replies...); err != nil {
			return err
		}
		if done {
			r.Logger.Debug("session terminated by cancel message")
			return nil
		}
	}
}

// watchSelection re-analyzes on every selection-change signal, mirroring the
// host's selectionchange event.
func (r *Runner) watchSelection(ctx context.Context, dispatcher *Dispatcher, ch <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			notice := domain.Envelope{
				Type:    domain.MsgSelectionChanged,
				Message: "Analyzing new selection...",
			}
			if err := r.emit(append([]domain.Envelope{notice}, dispatcher.Reanalyze(ctx)...)...); err != nil {
				r.Logger.Error("failed to emit selection update", "err", err)
				return
			}
		}
	}
}

func (r *Runner) emit(envelopes ...domain.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, env := range envelopes {
		if err := r.encoder.Encode(env); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}
	return nil
}
