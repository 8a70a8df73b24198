// Package memory provides in-memory implementations of driven ports.
//
// These adapters hold no persistent state and exist for tests:
//   - ConfigStore: map-backed configuration
//   - Timeline: a point-in-time database answering queries from a
//     function of the read timestamp
//   - HistoryStore: slice-backed search history
package memory
