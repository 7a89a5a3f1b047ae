// Package store provides SQLite-backed storage for recordings and decoding runs.
//
// A database holds:
//   - recording: one row of metadata (neurons, bins, duration, content hash)
//   - trials: behavioural labels and the neuron x bin feature block per trial
//   - runs: one row per decoding run with its options and data shape
//   - run_matrices: named score matrices belonging to a run
//
// Float arrays are stored as little-endian float64 BLOBs. Run options and
// shapes are stored as canonical JSON (see internal/runid) so stored runs
// hash identically to freshly computed ones.
//
// All list queries order by seq ASC, id ASC so results are identical across
// invocations.
//
// # Database Configuration
//
// Every connection runs in WAL mode with synchronous=NORMAL, a 5 s busy
// timeout and foreign keys enforced. Open creates a missing database;
// OpenExisting refuses to, so read-only commands never leave an empty file
// behind a mistyped path.
package store
