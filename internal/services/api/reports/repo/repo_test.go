package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/store"
	"resolveit/internal/services/api/reports/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type tag int64

func (t tag) RowsAffected() int64 { return int64(t) }

type call struct {
	sql  string
	args []any
}

type fakeQ struct {
	calls    []call
	affected int64
	err      error
	rows     [][]any
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.calls = append(f.calls, call{sql, args})
	return tag(f.affected), f.err
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.calls = append(f.calls, call{sql, args})
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{rows: f.rows}, nil
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.rows) }
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

// Scan copies the canned values into dst, mirroring what pgx does for these types
func (r *fakeRows) Scan(dst ...any) error {
	src := r.rows[r.i-1]
	for i, d := range dst {
		switch p := d.(type) {
		case *string:
			*p = src[i].(string)
		case **string:
			*p, _ = src[i].(*string)
		case *float64:
			*p = src[i].(float64)
		case **float64:
			*p, _ = src[i].(*float64)
		case *[]string:
			*p = src[i].([]string)
		case *time.Time:
			*p = src[i].(time.Time)
		default:
			return errors.New("unexpected scan target")
		}
	}
	return nil
}

func TestInsert_Args(t *testing.T) {
	q := &fakeQ{affected: 1}
	j := NewPG().Bind(q)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	err := j.Insert(context.Background(), domain.Report{
		ID: "CR-2026-ABC123", Title: "Pothole on Main Street", Category: domain.CategoryRoadMaintenance,
		Priority: domain.PriorityMedium, Status: domain.StatusOpen, SubmittedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}
	args := q.calls[0].args
	if len(args) != 19 || args[0] != "CR-2026-ABC123" || args[4] != "road-maintenance" {
		t.Fatalf("args = %v", args)
	}
	if args[8] != nil {
		t.Fatalf("blank phone should be NULL, got %v", args[8])
	}
	if imgs, ok := args[11].([]string); !ok || imgs == nil {
		t.Fatalf("images must be a non nil slice, got %#v", args[11])
	}
}

func TestInsert_DuplicateIsConflict(t *testing.T) {
	q := &fakeQ{err: &pgconn.PgError{Code: "23505", ConstraintName: "reports_pkey"}}
	err := NewPG().Bind(q).Insert(context.Background(), domain.Report{ID: "CR-2026-ABC123"})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdates(t *testing.T) {
	ctx := context.Background()
	at := time.Now().UTC()

	q := &fakeQ{affected: 1}
	j := NewPG().Bind(q)
	if err := j.UpdateStatus(ctx, "CR-1", domain.StatusClosed, at); err != nil {
		t.Fatal(err)
	}
	if err := j.UpdateAssignment(ctx, "CR-1", "general", "General Services", at); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q.calls[1].sql, "assigned_department_name") || q.calls[1].args[2] != "General Services" {
		t.Fatalf("assignment call = %+v", q.calls[1])
	}

	q.affected = 0
	if err := j.UpdateStatus(ctx, "CR-404", domain.StatusOpen, at); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing row err = %v", err)
	}
	q.err = &pgconn.PgError{Code: "57P01"}
	if err := j.UpdateStatus(ctx, "CR-1", domain.StatusOpen, at); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("shutdown err = %v", err)
	}
}

func TestAll_Scan(t *testing.T) {
	phone := "+15550100"
	lat := 40.7
	sub := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))
	q := &fakeQ{rows: [][]any{
		{"CR-2026-ABC123", "Pothole on Main Street", "large pothole causing damage", "Main St", "road-maintenance", "high",
			"A", "a@x.com", &phone, &lat, (*float64)(nil), []string{},
			"resolved", "road-maintenance", "Road Maintenance Department", 0.9, "Matched keywords: pothole, street",
			sub, sub.Add(time.Hour)},
	}}
	got, err := NewPG().Bind(q).All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	r := got[0]
	if r.Category != domain.CategoryRoadMaintenance || r.Priority != domain.PriorityHigh || r.Status != domain.StatusResolved {
		t.Fatalf("enums = %s %s %s", r.Category, r.Priority, r.Status)
	}
	if r.ReporterPhone != phone || *r.Latitude != lat || r.Longitude != nil || r.Images != nil {
		t.Fatalf("optionals = %+v", r)
	}
	if r.SubmittedAt.Location() != time.UTC || !r.SubmittedAt.Equal(sub) {
		t.Fatalf("submittedAt = %v", r.SubmittedAt)
	}
}

func TestEnsureSchema(t *testing.T) {
	q := &fakeQ{}
	if err := NewPG().Bind(q).EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q.calls[0].sql, "create table if not exists reports") {
		t.Fatalf("sql = %s", q.calls[0].sql)
	}
}
