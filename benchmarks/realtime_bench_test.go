package benchmarks

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/comalice/fsmx/internal/primitives"
	"github.com/comalice/fsmx/realtime"
)

// Realtime Loop Benchmarks
//
// - Tick Processing: time to fire a batch of triggers within one Step
// - Submission: cost of queueing from concurrent producers
// - Latency: end-to-end time from Submit to state change on a running loop

// countingRing is a two-state ring whose transitions count fires.
func countingRing(counter *atomic.Int64) *primitives.MachineConfig[string, string] {
	count := primitives.Do(func(ctx context.Context, o primitives.Outcome[string, string]) error {
		counter.Add(1)
		return nil
	})
	mc := primitives.NewMachineConfig[string, string]()
	mc.Configure("A").Permit("tick", "B", count)
	mc.Configure("B").Permit("tick", "A", count)
	return mc
}

func BenchmarkStepBatch(b *testing.B) {
	for _, size := range []int{1, 10, 100, 1000} {
		b.Run(fmt.Sprintf("batch=%d", size), func(b *testing.B) {
			var fired atomic.Int64
			loop := realtime.NewLoop(NewMachine(countingRing(&fired), "A"), realtime.Config{
				MaxEventsPerTick: size,
				Logger:           quiet,
			})
			ctx := context.Background()
			b.ReportAllocs()
			for b.Loop() {
				for i := 0; i < size; i++ {
					if err := loop.Submit("tick"); err != nil {
						b.Fatal(err)
					}
				}
				if _, err := loop.Step(ctx); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(fired.Load())/b.Elapsed().Seconds(), "fires/sec")
		})
	}
}

func BenchmarkSubmitConcurrent(b *testing.B) {
	var fired atomic.Int64
	loop := realtime.NewLoop(NewMachine(countingRing(&fired), "A"), realtime.Config{
		MaxEventsPerTick: 1 << 16,
		Logger:           quiet,
	})
	ctx := context.Background()

	var rejected atomic.Int64
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := loop.Submit("tick"); err != nil {
				rejected.Add(1)
			}
		}
	})
	b.StopTimer()
	if _, err := loop.Step(ctx); err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(rejected.Load()), "rejected")
}

func BenchmarkLoopLatency(b *testing.B) {
	var fired atomic.Int64
	loop := realtime.NewLoop(NewMachine(countingRing(&fired), "A"), realtime.Config{
		TickRate: time.Millisecond,
		Logger:   quiet,
	})
	if err := loop.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer loop.Stop()

	var total time.Duration
	for b.Loop() {
		want := fired.Load() + 1
		start := time.Now()
		if err := loop.Submit("tick"); err != nil {
			b.Fatal(err)
		}
		for fired.Load() < want {
			time.Sleep(50 * time.Microsecond)
		}
		total += time.Since(start)
	}
	b.ReportMetric(float64(total.Microseconds())/float64(b.N), "µs/trigger")
}
