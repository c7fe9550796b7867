// Package module wires the department directory into the API
package module

import (
	modkit "resolveit/internal/modkit"
	"resolveit/internal/modkit/httpkit"
	depthttp "resolveit/internal/services/api/departments/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps  modkit.Deps
	built modkit.Built
}

// New constructs the departments module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	return &Module{
		deps:  deps,
		built: modkit.Build([]modkit.Option{modkit.WithName("departments"), modkit.WithPrefix("/departments")}, opts...),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { depthttp.Register(rr, m.deps.Departments) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports exposes the registry itself
func (m *Module) Ports() any { return m.deps.Departments }
