package domain

import (
	"context"
	"time"
)

// ServicePort is the report store contract used by the HTTP layer
type ServicePort interface {
	Submit(ctx context.Context, in SubmitInput) (Report, error)
	List(ctx context.Context, f Filter, p Page) (ListResult, error)
	Get(ctx context.Context, id string) (Report, error)
	SetStatus(ctx context.Context, id string, status Status) (Report, error)
	Reassign(ctx context.Context, id, departmentID string) (Report, error)
	Statistics(ctx context.Context) Statistics
}

// Publisher receives every mutation inside the store critical section, in order.
// Implementations must not block and must not call back into the store
type Publisher interface {
	Publish(Event)
}

// Feed is the subscribe side of the store. attach runs inside the store critical
// section with the sync snapshot, so the session sees no gap and no duplicate
type Feed interface {
	Subscribe(sessionID string, attach func(InitialSync) error) error
}

// Journal is an optional write-through log; a failed write aborts the mutation
type Journal interface {
	Insert(ctx context.Context, r Report) error
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	UpdateAssignment(ctx context.Context, id, departmentID, departmentName string, at time.Time) error
	All(ctx context.Context) ([]Report, error)
}
