// Package sim provides the network resilience simulation kernel.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - netplan.go: the static plan (nodes, links, demands, SRGs, planned routes and segments)
//   - event.go and action.go: the failure/repair events and the provisioning actions
//   - state.go and state_update.go: NetState storage, Reset, and the Update transition
//
// # Architecture
//
// A NetState is built from a NetPlan and then driven by Update(event,
// actions): the event updates the failure bookkeeping, routes hit by the
// failure are reset to their planned path with zero traffic, and the
// provisioning actions are applied in order. Everything an algorithm needs
// to decide on those actions is a read-only query on the Reader interface
// (state_queries.go, effects.go, merge.go).
//
// Implementations of the moving parts live in sub-packages:
//   - sim/generator/: event generators (scripted, random per-SRG failures)
//   - sim/algorithm/: provisioning algorithms (none, revert, restoration, protection)
//   - sim/engine/: the discrete-event loop connecting generator, algorithm and state
//   - sim/trace/: per-event step records
//   - sim/metrics/: Prometheus gauges over a state
//
// # Ownership
//
// NetState is the single writer. UnmodifiableView returns a View sharing
// the same storage with no mutating methods, and Copy returns an
// independent state for what-if evaluation. The plan is never mutated.
package sim
