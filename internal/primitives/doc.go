// Package primitives provides the foundational data structures for the fsmx engine:
// transition descriptors, per-state configuration with guard conflict resolution,
// the machine-wide state registry and the outcome record produced by each fire.
//
// Core invariants:
//   - Transitions are immutable once registered
//   - At most one unconditional transition per (state, trigger)
//   - At most one satisfied guard per (state, trigger) at fire time
//   - MachineConfig is built before the first fire and only read afterwards
package primitives
