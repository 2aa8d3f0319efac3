// Package realtime provides a tick-based deterministic host for an fsmx
// StateMachine.
//
// Triggers are not fired as they arrive. They are queued and fired in batches
// at fixed tick boundaries:
//   - Triggers are batched and processed at tick boundaries
//   - Ordering within a batch is deterministic (priority, then sequence number)
//   - The machine is only touched by one goroutine at a time
//
// # Example Usage
//
//	machine, _ := core.New(config, "IDLE")
//	loop := realtime.NewLoop(machine, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	loop.Start(ctx)
//	defer loop.Stop()
//	loop.Submit("PREPARE")
//
// # Event Ordering Guarantees
//
// Triggers are ordered deterministically using:
//  1. Priority (higher priority processed first)
//  2. Sequence number (FIFO for same priority)
//  3. Stable sorting (preserves relative order)
//
// Given the same sequence of Submit calls the machine always takes the same
// path, regardless of timing. Step runs a single tick synchronously, which is
// how tests and simulations drive a Loop without a ticker.
//
// # Use Cases
//
//   - Robotics and control loops (fixed time-step)
//   - Simulations
//   - Testing/debugging (reproducible scenarios)
package realtime
