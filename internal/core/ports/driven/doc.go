// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SnapshotReader: Point-in-time query execution (Cloud Spanner stale reads)
//   - DatabaseInspector: Database metadata and server clock
//   - ConfigStore: Application configuration
//   - HistoryStore: Finished searches
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
