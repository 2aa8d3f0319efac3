// Command demo runs the arm controller lifecycle on a tick loop and prints
// every published transition followed by the Graphviz rendering of the machine.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/fsmx/internal/config"
	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/extensibility"
	"github.com/comalice/fsmx/internal/logging"
	"github.com/comalice/fsmx/internal/primitives"
	"github.com/comalice/fsmx/internal/production"
	"github.com/comalice/fsmx/realtime"
)

//go:embed lifecycle.yaml
var lifecycle []byte

type step struct {
	trigger  string
	progress int
}

var script = []step{
	{trigger: "PREPARE", progress: 0},
	{trigger: "POLL", progress: 0},
	{trigger: "POLL", progress: 40},
	{trigger: "FINISH", progress: 100},
	{trigger: "PREPARE", progress: 100},
	{trigger: "POLL", progress: 0},
	{trigger: "SHUTDOWN", progress: 0},
	{trigger: "ERROR", progress: 0},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	var cfg config.Demo
	if err := config.Load(&cfg); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format := logging.Format(cfg.LogFormat)
	if format != logging.FormatJSON && format != logging.FormatText {
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	logger := logging.New(
		logging.WithLevel(level),
		logging.WithFormat(format),
		logging.WithOutput(os.Stderr),
		logging.WithAttr(logging.Component("demo")),
	)

	data := lifecycle
	if cfg.Definition != "" {
		if data, err = os.ReadFile(cfg.Definition); err != nil {
			return fmt.Errorf("read definition: %w", err)
		}
	}

	signals := primitives.NewSignals()
	signals.Set("progress", 0)
	reg := production.NewRegistry().
		Signals(signals).
		Action("announce", extensibility.Logged[string, string](logger, "announce", nil)).
		Action("calibrate", extensibility.Logged[string, string](logger, "calibrate", nil)).
		Action("halt", extensibility.Logged[string, string](logger, "halt", nil)).
		Action("report", extensibility.Logged[string, string](logger, "report", func(ctx context.Context, o primitives.Outcome[string, string]) error {
			v, _ := signals.Get("progress")
			logger.InfoContext(ctx, "job in progress", slog.Any("progress", v))
			return nil
		}))

	def, mc, err := production.LoadDefinition(data, reg)
	if err != nil {
		return err
	}
	id := cfg.MachineID
	if id == "" {
		id = def.Machine
	}

	records := make(chan core.TransitionRecord, 100)
	publisher := production.NewChannelPublisher(records)
	machine, err := core.New(mc, def.Initial,
		core.WithID(id),
		core.WithLogger(logger),
		core.WithPublisher(publisher),
	)
	if err != nil {
		return err
	}

	loop := realtime.NewLoop(machine, realtime.Config{
		TickRate:         cfg.TickRate,
		MaxEventsPerTick: cfg.MaxEvents,
		Logger:           logger,
	})
	triggers := make(chan string, len(script))
	if err := loop.Attach(extensibility.NewChannelSource(triggers)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := loop.Start(ctx); err != nil {
		return err
	}

	for _, s := range script {
		signals.Set("progress", s.progress)
		triggers <- s.trigger

		select {
		case rec := <-records:
			status := "ok"
			if rec.Failed {
				status = "refused: " + rec.Reason
			}
			fmt.Printf("%-8s %-9s -> %-9s %s\n", rec.Trigger, rec.From, rec.To, status)
		case <-time.After(time.Second + 10*cfg.TickRate):
			_ = loop.Stop()
			return fmt.Errorf("no transition record for %s", s.trigger)
		case <-ctx.Done():
			_ = loop.Stop()
			return ctx.Err()
		}
	}

	if err := loop.Stop(); err != nil {
		return err
	}
	if n := publisher.Dropped(); n > 0 {
		logger.Warn("transition records dropped", slog.Uint64("count", n))
	}
	_ = publisher.Close()

	fmt.Printf("\nfinal state: %s (last fire successful: %t)\n", loop.CurrentState(), !loop.LastOutcome().Failed)
	if cfg.DOT {
		fmt.Println()
		fmt.Print(production.ExportDOT(mc, loop.CurrentState()))
	}
	return nil
}
