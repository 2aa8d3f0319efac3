package extensibility

import (
	"context"
	"log/slog"
	"time"

	"github.com/comalice/fsmx/internal/primitives"
)

// Logged wraps action so that every invocation is logged with its duration
// and result. A nil action yields a callback that only logs.
func Logged[S, T comparable](logger *slog.Logger, name string, action primitives.Action[S, T]) primitives.Action[S, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, o primitives.Outcome[S, T]) error {
		start := time.Now()
		var err error
		if action != nil {
			err = action(ctx, o)
		}
		attrs := []any{
			slog.String("action", name),
			slog.Any("from", o.From),
			slog.Any("trigger", o.Trigger),
			slog.Any("to", o.To),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.ErrorContext(ctx, "action failed", append(attrs, slog.Any("error", err))...)
			return err
		}
		logger.InfoContext(ctx, "action executed", attrs...)
		return nil
	}
}
