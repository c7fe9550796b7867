// Package http provides http transport for reports
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"resolveit/internal/core/registry"
	"resolveit/internal/modkit/httpkit"
	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/logger"
	"resolveit/internal/platform/net/middleware"
	"resolveit/internal/services/api/reports/domain"
)

// Departments resolves contact details for the submit receipt
type Departments interface {
	Lookup(id string) (registry.Department, bool)
}

// Register mounts report endpoints. Intake is open; reading and triage sit behind auth
func Register(r httpkit.Router, s domain.ServicePort, deps Departments, auth middleware.AuthPort) {
	h := &handlers{svc: s, deps: deps}
	httpkit.PostJSON(r, "/", h.submit)
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/", h.list)
		httpkit.Get(pr, "/stats", h.stats)
		httpkit.Get(pr, "/{id}", h.get)
		httpkit.PatchJSON(pr, "/{id}/status", h.setStatus)
		httpkit.PatchJSON(pr, "/{id}/reassign", h.reassign)
	})
}

type handlers struct {
	svc  domain.ServicePort
	deps Departments
}

// Contact is how a citizen reaches the assigned department
type Contact struct {
	ID    string `json:"id" example:"road-maintenance"`
	Name  string `json:"name" example:"Road Maintenance Department"`
	Email string `json:"email" example:"roads@city.gov"`
	Phone string `json:"phone" example:"(555) 345-6789"`
}

// Receipt is returned to the citizen after a submit
type Receipt struct {
	ReportID           string                `json:"reportId" example:"CR-2026-7K2M9Q"`
	AssignedDepartment Contact               `json:"assignedDepartment"`
	RoutingDetails     domain.RoutingDetails `json:"routingDetails"`
	Status             domain.Status         `json:"status" example:"open"`
	SubmittedAt        time.Time             `json:"submittedAt"`
}

// StatusInput is the body of a status change
type StatusInput struct {
	Status string `json:"status" validate:"required" example:"in-progress"`
}

// ReassignInput is the body of a reassignment
type ReassignInput struct {
	DepartmentID string `json:"departmentId" validate:"required" example:"public-works"`
}

// @Summary Submit a civic issue report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body domain.SubmitInput true "Report"
// @Success 201 {object} Receipt
// @Router /reports [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitInput) (any, error) {
	in = sanitize(in)
	// markup-only text can fall under the length rules once stripped
	if err := httpkit.Validate(in); err != nil {
		return nil, err
	}
	rep, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		return nil, err
	}
	dept, _ := h.deps.Lookup(rep.AssignedDepartment)
	return Receipt{
		ReportID:           rep.ID,
		AssignedDepartment: Contact{ID: dept.ID, Name: dept.Name, Email: dept.Email, Phone: dept.Phone},
		RoutingDetails:     domain.RoutingDetails{Confidence: rep.RoutingConfidence, Reason: rep.RoutingReason},
		Status:             rep.Status,
		SubmittedAt:        rep.SubmittedAt,
	}, nil
}

func intParam(r *stdhttp.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a non-negative integer", name), name)
	}
	return n, nil
}

// @Summary List reports newest first
// @Tags Reports
// @Produce json
// @Param department query string false "Department id"
// @Param status query string false "Status"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {array} domain.Report
// @Router /reports [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit, err := intParam(r, "limit")
	if err != nil {
		return nil, err
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	res, err := h.svc.List(r.Context(),
		domain.Filter{DepartmentID: q.Get("department"), Status: domain.Status(q.Get("status"))},
		domain.Page{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}
	return httpkit.List(res.Reports, res.Total, res.Limit, res.Offset), nil
}

// @Summary Get one report
// @Tags Reports
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} domain.Report
// @Router /reports/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}

// @Summary Report statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} domain.Statistics
// @Router /reports/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.Statistics(r.Context()), nil
}

// @Summary Change a report's status
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Param payload body StatusInput true "New status"
// @Success 200 {object} domain.Report
// @Router /reports/{id}/status [patch]
func (h *handlers) setStatus(r *stdhttp.Request, in StatusInput) (any, error) {
	rep, err := h.svc.SetStatus(r.Context(), httpkit.Param(r, "id"), domain.Status(in.Status))
	if err != nil {
		return nil, err
	}
	logger.C(r.Context()).Info().Str("actor", httpkit.Actor(r)).Str("report_id", rep.ID).Str("status", in.Status).Msg("status changed")
	return rep, nil
}

// @Summary Reassign a report to another department
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Param payload body ReassignInput true "Target department"
// @Success 200 {object} domain.Report
// @Router /reports/{id}/reassign [patch]
func (h *handlers) reassign(r *stdhttp.Request, in ReassignInput) (any, error) {
	rep, err := h.svc.Reassign(r.Context(), httpkit.Param(r, "id"), in.DepartmentID)
	if err != nil {
		return nil, err
	}
	logger.C(r.Context()).Info().Str("actor", httpkit.Actor(r)).Str("report_id", rep.ID).Str("department", in.DepartmentID).Msg("report reassigned")
	return rep, nil
}
