package domain

import (
	"time"

	"resolveit/internal/core/registry"
)

// EventKind names a mutation on the wire
type EventKind string

// Mutation kinds
const (
	EventReportCreated EventKind = "report:new"
	EventStatusChanged EventKind = "report:status-updated"
	EventReassigned    EventKind = "report:reassigned"
)

// RoutingDetails is the classifier verdict attached to a new report
type RoutingDetails struct {
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// ReportCreated is published after a successful Submit
type ReportCreated struct {
	Report     Report              `json:"report"`
	Department registry.Department `json:"department"`
	Routing    RoutingDetails      `json:"routingDetails"`
}

// StatusChanged is published after SetStatus
type StatusChanged struct {
	ReportID  string    `json:"reportId"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DepartmentRef names a department without its contact details
type DepartmentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Reassigned is published after Reassign
type Reassigned struct {
	ReportID      string        `json:"reportId"`
	NewDepartment DepartmentRef `json:"newDepartment"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Event is one mutation paired with the statistics computed in the same critical section.
// Exactly one of Created, StatusChanged, Reassigned is set, matching Kind.
// Seq increases by one per published event
type Event struct {
	Seq           uint64
	Kind          EventKind
	Created       *ReportCreated
	StatusChanged *StatusChanged
	Reassigned    *Reassigned
	Stats         Statistics
}

// Payload returns the kind specific body
func (e Event) Payload() any {
	switch e.Kind {
	case EventReportCreated:
		return e.Created
	case EventStatusChanged:
		return e.StatusChanged
	case EventReassigned:
		return e.Reassigned
	}
	return nil
}

// ReportID returns the id of the report the event is about
func (e Event) ReportID() string {
	switch {
	case e.Created != nil:
		return e.Created.Report.ID
	case e.StatusChanged != nil:
		return e.StatusChanged.ReportID
	case e.Reassigned != nil:
		return e.Reassigned.ReportID
	}
	return ""
}

// InitialSync is what a session receives on joining: the total then the newest reports
type InitialSync struct {
	Seq    uint64   `json:"seq"`
	Total  int      `json:"total"`
	Recent []Report `json:"recent"`
}
