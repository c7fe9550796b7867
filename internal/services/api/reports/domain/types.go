// Package domain holds the report model, its enums and the mutation events
package domain

import (
	"slices"
	"time"

	perr "resolveit/internal/platform/errors"
)

// Status is the lifecycle state of a report; any status may follow any other
type Status string

// Report statuses
const (
	StatusOpen        Status = "open"
	StatusInProgress  Status = "in-progress"
	StatusUnderReview Status = "under-review"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusOpen, StatusInProgress, StatusUnderReview, StatusResolved, StatusClosed}

// Valid reports whether s is one of Statuses
func (s Status) Valid() bool { return slices.Contains(Statuses, s) }

// ParseStatus rejects values outside the enum with InvalidArgument
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", perr.WithField(perr.InvalidArgf("invalid status %q", s), "status")
	}
	return st, nil
}

// Category is the citizen-chosen issue category
type Category string

// Report categories
const (
	CategorySanitation      Category = "sanitation"
	CategoryPublicWorks     Category = "public-works"
	CategoryRoadMaintenance Category = "road-maintenance"
	CategoryWaterSupply     Category = "water-supply"
	CategoryOther           Category = "other"
)

// Categories lists every category
var Categories = []Category{CategorySanitation, CategoryPublicWorks, CategoryRoadMaintenance, CategoryWaterSupply, CategoryOther}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool { return slices.Contains(Categories, c) }

// Priority is the reporter's urgency hint
type Priority string

// Report priorities
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Report is a submitted civic issue. JSON names match the dashboard client
type Report struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	Location               string    `json:"location"`
	Category               Category  `json:"category"`
	Priority               Priority  `json:"priority"`
	ReporterName           string    `json:"reporterName"`
	ReporterEmail          string    `json:"reporterEmail"`
	ReporterPhone          string    `json:"reporterPhone,omitempty"`
	Latitude               *float64  `json:"latitude,omitempty"`
	Longitude              *float64  `json:"longitude,omitempty"`
	Images                 []string  `json:"images,omitempty"`
	Status                 Status    `json:"status"`
	AssignedDepartment     string    `json:"assignedDepartment"`
	AssignedDepartmentName string    `json:"assignedDepartmentName"`
	RoutingConfidence      float64   `json:"routingConfidence"`
	RoutingReason          string    `json:"routingReason"`
	SubmittedAt            time.Time `json:"submittedAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no memory with r
func (r Report) Clone() Report {
	out := r
	if r.Latitude != nil {
		v := *r.Latitude
		out.Latitude = &v
	}
	if r.Longitude != nil {
		v := *r.Longitude
		out.Longitude = &v
	}
	out.Images = slices.Clone(r.Images)
	return out
}

// SubmitInput is the creation subset of Report; server assigned fields are absent
type SubmitInput struct {
	Title         string   `json:"title" validate:"required,min=5,max=200" example:"Pothole on Main Street"`
	Description   string   `json:"description" validate:"required,min=10,max=1000" example:"large pothole causing damage"`
	Location      string   `json:"location" validate:"required,min=5,max=200" example:"Main St"`
	Category      Category `json:"category" validate:"required,oneof=sanitation public-works road-maintenance water-supply other" example:"road-maintenance"`
	Priority      Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent" example:"medium"`
	ReporterName  string   `json:"reporterName" validate:"required,min=2,max=100" example:"Ada"`
	ReporterEmail string   `json:"reporterEmail" validate:"required,email" example:"ada@example.org"`
	ReporterPhone string   `json:"reporterPhone,omitempty" validate:"omitempty,phone" example:"+15550100"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Images        []string `json:"images,omitempty" validate:"omitempty,max=5,dive,url"`
}

// Filter selects reports by exact match; empty fields match everything
type Filter struct {
	DepartmentID string
	Status       Status
}

// Matches reports whether r passes the filter
func (f Filter) Matches(r *Report) bool {
	return (f.DepartmentID == "" || r.AssignedDepartment == f.DepartmentID) &&
		(f.Status == "" || r.Status == f.Status)
}

// Page bounds for List
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Page is a limit/offset window over the filtered, sorted reports
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies the default limit and clamps both bounds
func (p Page) Normalize() Page {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListResult is one page of reports plus the filtered total
type ListResult struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// Statistics is derived from the report collection on every mutation
type Statistics struct {
	Total        int            `json:"total"`
	ByStatus     map[Status]int `json:"byStatus"`
	ByDepartment map[string]int `json:"byDepartment"`
}
