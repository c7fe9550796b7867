//go:build integration_pg

package repo

import (
	"context"
	"testing"
	"time"

	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/store"
	kit "resolveit/internal/platform/testkit"
	"resolveit/internal/services/api/reports/domain"
)

func TestJournal_Postgres(t *testing.T) {
	dsn := kit.StartPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "resolveit-journal-it",
		PG:      store.PGConfig{URL: dsn, MaxConns: 2, ConnectRetries: 5, PingTimeout: 3 * time.Second},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st.Close() }()

	j := NewPG().Bind(st.PG)
	if err := j.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	lat := 40.7
	now := time.Now().UTC().Truncate(time.Microsecond)
	rep := domain.Report{
		ID: "CR-2026-IT0001", Title: "Water leak at hydrant", Description: "hydrant leaking since morning",
		Location: "5th Avenue", Category: domain.CategoryWaterSupply, Priority: domain.PriorityUrgent,
		ReporterName: "Ada", ReporterEmail: "ada@example.org", Latitude: &lat,
		Images: []string{"https://img.example.org/1.jpg"}, Status: domain.StatusOpen,
		AssignedDepartment: "water-supply", AssignedDepartmentName: "Water Supply Department",
		RoutingConfidence: 0.9, RoutingReason: "Matched keywords: water, leak, hydrant",
		SubmittedAt: now, UpdatedAt: now,
	}
	if err := j.Insert(ctx, rep); err != nil {
		t.Fatal(err)
	}
	if err := j.Insert(ctx, rep); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("duplicate insert err = %v", err)
	}
	later := now.Add(time.Minute)
	if err := j.UpdateStatus(ctx, rep.ID, domain.StatusInProgress, later); err != nil {
		t.Fatal(err)
	}
	if err := j.UpdateAssignment(ctx, rep.ID, "public-works", "Public Works Department", later); err != nil {
		t.Fatal(err)
	}
	if err := j.UpdateStatus(ctx, "CR-2026-NOPE00", domain.StatusClosed, later); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing update err = %v", err)
	}

	all, err := j.All(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("All = %v %v", all, err)
	}
	got := all[0]
	if got.Status != domain.StatusInProgress || got.AssignedDepartment != "public-works" || !got.UpdatedAt.Equal(later) {
		t.Fatalf("got = %+v", got)
	}
	if *got.Latitude != lat || got.Longitude != nil || len(got.Images) != 1 || got.ReporterPhone != "" {
		t.Fatalf("optionals = %+v", got)
	}
}
