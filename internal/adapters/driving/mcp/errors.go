// Package mcp provides an MCP (Model Context Protocol) server adapter for pitrseek.
// It lets AI assistants find recovery timestamps and inspect databases and
// the search history.
package mcp

import "errors"

// ErrMissingOpener is returned when no database opener is provided.
var ErrMissingOpener = errors.New("mcp: database opener is required")
