// Package http exposes the department registry read-only
package http

import (
	stdhttp "net/http"

	"resolveit/internal/core/registry"
	"resolveit/internal/modkit/httpkit"
	perr "resolveit/internal/platform/errors"
)

// Directory is the registry surface the handlers read
type Directory interface {
	All() []registry.Department
	Lookup(id string) (registry.Department, bool)
}

type handlers struct{ dir Directory }

// Register mounts the department routes
func Register(r httpkit.Router, dir Directory) {
	h := &handlers{dir: dir}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
}

// @Summary List departments in registration order
// @Tags Departments
// @Produce json
// @Success 200 {array} registry.Department
// @Router /departments [get]
func (h *handlers) list(*stdhttp.Request) (any, error) {
	return h.dir.All(), nil
}

// @Summary Get one department
// @Tags Departments
// @Produce json
// @Param id path string true "Department id"
// @Success 200 {object} registry.Department
// @Router /departments/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	d, ok := h.dir.Lookup(id)
	if !ok {
		return nil, perr.WithField(perr.NotFoundf("department %q not found", id), "id")
	}
	return d, nil
}
