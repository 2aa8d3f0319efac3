package realtime

import (
	"context"
	"log/slog"

	"github.com/comalice/fsmx/internal/primitives"
)

// Step processes one complete tick synchronously and returns the outcome of
// every trigger fired. A trigger that is not permitted yields a failed outcome
// and processing continues. A callback error stops the tick: the remaining
// triggers of the batch are discarded and the error is returned.
func (l *Loop[S, T]) Step(ctx context.Context) ([]primitives.Outcome[S, T], error) {
	// Phase 1: Collect triggers atomically
	batch := l.collect()

	// Phase 2: Sort for deterministic order
	sortTriggers(batch)

	// Phase 3: Fire
	l.mu.Lock()
	defer l.mu.Unlock()
	defer func() { l.tickNum++ }()

	outcomes := make([]primitives.Outcome[S, T], 0, len(batch))
	for i, meta := range batch {
		o, err := l.machine.Fire(ctx, meta.Trigger)
		outcomes = append(outcomes, o)
		if err != nil {
			l.logger.ErrorContext(ctx, "tick aborted",
				slog.Uint64("tick", l.tickNum),
				slog.Any("trigger", meta.Trigger),
				slog.Int("discarded", len(batch)-i-1),
				slog.Any("error", err))
			return outcomes, err
		}
	}
	return outcomes, nil
}

// collect atomically retrieves and clears the trigger batch.
func (l *Loop[S, T]) collect() []TriggerWithMeta[T] {
	l.batchMu.Lock()
	defer l.batchMu.Unlock()

	batch := l.batch
	l.batch = make([]TriggerWithMeta[T], 0, cap(l.batch))
	return batch
}
