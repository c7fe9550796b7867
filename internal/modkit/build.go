package modkit

import (
	"net/http"

	"resolveit/internal/modkit/httpkit"
	"resolveit/internal/platform/net/middleware"
	str "resolveit/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
	Auth   middleware.AuthPort
}

// Build applies defaults first and opts after, so callers override module defaults
func Build(defaults []Option, opts ...Option) Built {
	var c buildCfg
	for _, o := range append(append([]Option(nil), defaults...), opts...) {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
		Auth:   c.auth,
	}
}

// Mount routes register under the module prefix with the module middlewares applied
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	httpkit.MountUnder(r, str.MustPrefix(b.Prefix), b.Mw, register)
}
