// Package module defines the minimal contract for a modkit module
package module

import (
	"context"

	phttp "resolveit/internal/platform/net/http"
)

// Module defines the minimal contract used by modkit
// kept apart from modkit so a module package can export its own ports type without import cycles
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Streamer is implemented by modules with long lived endpoints (websockets)
// that must be mounted outside the request timeout
type Streamer interface {
	MountStream(r phttp.Router)
}

// Starter is implemented by modules with startup work: schema, restore, background loops.
// Loops run until ctx is cancelled
type Starter interface {
	Start(ctx context.Context) error
}
