// Package tui renders a live view of a running timestamp search.
//
// The view is a Bubbletea program driven by a Reporter, which the search
// calls after every classified probe. Pressing q (or Ctrl-C) asks the
// search to stop after the probe in flight; pressing it again exits at once.
package tui
