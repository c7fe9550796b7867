// Package modkit provides module wiring and core deps
package modkit

import "resolveit/internal/modkit/module"

// Module is the surface every API module exposes to the composition root
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
