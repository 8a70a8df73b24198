// Package spanner reads a Cloud Spanner database as of past timestamps
// through the Spanner REST API.
//
// Client implements driven.SnapshotReader and driven.DatabaseInspector.
// Every probe runs in a single-use read-only transaction on one long-lived
// session, paced by a google.RateLimiter.
package spanner
