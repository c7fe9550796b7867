// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "resolveit/internal/modkit"
	"resolveit/internal/modkit/httpkit"
	"resolveit/internal/modkit/repokit"

	metahttp "resolveit/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	built     modkit.Built
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return &Module{
		deps:      deps,
		built:     modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...),
		startedAt: time.Now(),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	d := metahttp.Deps{
		ServiceName: "resolveit-api",
		StartedAt:   m.startedAt,
		Routing:     m.deps.Routing,
	}
	if p, ok := m.deps.PG.(repokit.Pinger); ok {
		d.PG = p
	}
	if m.deps.CH != nil {
		d.CH = m.deps.CH
	}
	m.built.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, d) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
