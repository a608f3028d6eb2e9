// Package monitor samples host telemetry in the background and publishes
// point-in-time snapshots to subscribers.
//
// # Architecture
//
// A single Poller owns the tick schedule. On each tick its Assembler invokes
// five metric sources and merges their readings into one immutable Snapshot:
//
//	CPUSource      - overall and per-core load, split into P and E core classes
//	GPUSource      - utilization read from host tools, or unavailable
//	MemorySource   - RAM and swap usage with a derived pressure band
//	NetworkSource  - throughput from counter deltas, with RollingHistory
//	ProcessSource  - top processes by CPU percent
//
// The snapshot is stored as the latest value and fanned out through a
// Registry. A failing source yields an unavailable reading and a failing
// subscriber is skipped for that tick; neither stops the loop.
//
// # Message Flow
//
//  1. the poll loop wakes at the next tick boundary (default every 2s)
//  2. Assembler samples all sources concurrently (CPU before top processes)
//  3. the snapshot is swapped into the latest cell under a short lock
//  4. every subscriber receives its own copy, in registration order
//
// Channel subscribers get an unbounded mailbox so a slow reader neither
// blocks the loop nor misses snapshots.
package monitor
