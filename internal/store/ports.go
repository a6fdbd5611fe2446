// Package store defines the outbound port for the remote document
// store that owns the authoritative data. Adapters live in
// subpackages; services depend only on this interface.
package store

import (
	"context"
	"encoding/json"
)

// Client is a document-tree store addressed by slash-separated paths.
// Implementations return transport and status failures as errors; the
// service layer above decides whether to degrade or surface them.
type Client interface {
	// Get fetches the subtree at path. A missing subtree yields nil
	// data and no error.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Set overwrites the subtree at path.
	Set(ctx context.Context, path string, value any) error

	// Push appends value under path with a store-generated unique key
	// and returns that key.
	Push(ctx context.Context, path string, value any) (string, error)

	// Update shallow-merges partial into the subtree at path.
	Update(ctx context.Context, path string, partial any) error

	// Delete removes the subtree at path. Deleting a missing subtree
	// is not an error.
	Delete(ctx context.Context, path string) error

	// Probe is a lightweight reachability check.
	Probe(ctx context.Context) bool
}
