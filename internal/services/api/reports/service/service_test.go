package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resolveit/internal/core/registry"
	"resolveit/internal/core/routing"
	perr "resolveit/internal/platform/errors"
	"resolveit/internal/services/api/reports/domain"
)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(ev domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { c.t = c.t.Add(time.Second); return c.t }

func newStore(t *testing.T, mut func(*Options)) (*Store, *recorder) {
	t.Helper()
	reg, err := registry.Load()
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := routing.LoadTable()
	if err != nil {
		t.Fatal(err)
	}
	rt, err := routing.New(tbl, reg)
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	opt := Options{Registry: reg, Router: rt, Publisher: rec, Now: c.now}
	if mut != nil {
		mut(&opt)
	}
	return New(opt), rec
}

func pothole() domain.SubmitInput {
	return domain.SubmitInput{
		Title:         "Pothole on Main Street",
		Description:   "large pothole causing damage",
		Location:      "Main St",
		Category:      domain.CategoryRoadMaintenance,
		ReporterName:  "A",
		ReporterEmail: "a@x.com",
	}
}

func TestSubmit_RoutesAndRoundTrips(t *testing.T) {
	s, rec := newStore(t, nil)
	ctx := context.Background()
	lat, lon := 40.7, -74.0
	in := pothole()
	in.Latitude, in.Longitude = &lat, &lon
	in.Images = []string{"https://img.example.org/1.jpg"}
	in.ReporterPhone = "+15550100"

	r, err := s.Submit(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if r.AssignedDepartment != "road-maintenance" || r.RoutingConfidence != 0.9 {
		t.Fatalf("routing = %s %.1f", r.AssignedDepartment, r.RoutingConfidence)
	}
	if r.RoutingReason != "Matched keywords: pothole, street" {
		t.Fatalf("reason = %q", r.RoutingReason)
	}
	if r.Status != domain.StatusOpen || r.Priority != domain.PriorityMedium {
		t.Fatalf("defaults = %s %s", r.Status, r.Priority)
	}
	if !r.UpdatedAt.Equal(r.SubmittedAt) || r.AssignedDepartmentName == "" {
		t.Fatalf("report = %+v", r)
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != in.Title || got.Description != in.Description || got.Location != in.Location ||
		got.Category != in.Category || got.ReporterName != in.ReporterName || got.ReporterEmail != in.ReporterEmail ||
		got.ReporterPhone != in.ReporterPhone || *got.Latitude != lat || *got.Longitude != lon ||
		len(got.Images) != 1 || got.Images[0] != in.Images[0] {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// callers cannot reach into the store through returned values
	got.Images[0] = "mutated"
	*got.Latitude = 0
	again, _ := s.Get(ctx, r.ID)
	if again.Images[0] != in.Images[0] || *again.Latitude != lat {
		t.Fatal("returned report aliases store memory")
	}

	evs := rec.all()
	if len(evs) != 1 || evs[0].Kind != domain.EventReportCreated || evs[0].Seq != 1 {
		t.Fatalf("events = %+v", evs)
	}
	if evs[0].Created.Department.ID != "road-maintenance" || evs[0].Stats.Total != 1 {
		t.Fatalf("created = %+v", evs[0].Created)
	}
}

func TestSubmit_HigherPriorityRuleWins(t *testing.T) {
	s, _ := newStore(t, nil)
	in := pothole()
	in.Title = "Water leak next to a pothole"
	r, err := s.Submit(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if r.AssignedDepartment != "water-supply" {
		t.Fatalf("department = %s", r.AssignedDepartment)
	}
}

func TestSubmit_IDFormat(t *testing.T) {
	s, _ := newStore(t, nil)
	r, err := s.Submit(context.Background(), pothole())
	if err != nil {
		t.Fatal(err)
	}
	if len(r.ID) != len("CR-2026-ABC123") || r.ID[:8] != "CR-2026-" {
		t.Fatalf("id = %q", r.ID)
	}
	for _, c := range r.ID[8:] {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z') {
			t.Fatalf("id suffix has %q", c)
		}
	}
}

func TestSubmit_CollisionRetry(t *testing.T) {
	// first two draws spell AAAAAA, the third BBBBBB
	seq := append(append(bytes.Repeat([]byte{10}, 12), bytes.Repeat([]byte{11}, 6)...), bytes.Repeat([]byte{12}, 6)...)
	s, _ := newStore(t, func(o *Options) { o.Rand = bytes.NewReader(seq) })
	ctx := context.Background()

	a, err := s.Submit(ctx, pothole())
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Submit(ctx, pothole())
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "CR-2026-AAAAAA" || b.ID != "CR-2026-BBBBBB" {
		t.Fatalf("ids = %s %s", a.ID, b.ID)
	}
}

func TestSubmit_RandFailure(t *testing.T) {
	s, rec := newStore(t, func(o *Options) { o.Rand = bytes.NewReader(nil) })
	_, err := s.Submit(context.Background(), pothole())
	if !perr.IsCode(err, perr.ErrorCodeInternal) {
		t.Fatalf("err = %v", err)
	}
	if s.Len() != 0 || len(rec.all()) != 0 {
		t.Fatal("failed submit left state behind")
	}
}

func TestList(t *testing.T) {
	s, _ := newStore(t, nil)
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"Pothole on Elm Street", "Garbage not collected", "Pothole on Oak Street"} {
		in := pothole()
		in.Title = title
		in.Description = "reported by a neighbour"
		r, err := s.Submit(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.ID)
	}
	if _, err := s.SetStatus(ctx, ids[0], domain.StatusResolved); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		filter  domain.Filter
		page    domain.Page
		wantIDs []string
		total   int
	}{
		{"all newest first", domain.Filter{}, domain.Page{}, []string{ids[2], ids[1], ids[0]}, 3},
		{"by department", domain.Filter{DepartmentID: "road-maintenance"}, domain.Page{}, []string{ids[2], ids[0]}, 2},
		{"by status", domain.Filter{Status: domain.StatusResolved}, domain.Page{}, []string{ids[0]}, 1},
		{"both", domain.Filter{DepartmentID: "sanitation", Status: domain.StatusOpen}, domain.Page{}, []string{ids[1]}, 1},
		{"window", domain.Filter{}, domain.Page{Limit: 1, Offset: 1}, []string{ids[1]}, 3},
		{"offset past end", domain.Filter{}, domain.Page{Limit: 5, Offset: 9}, nil, 3},
		{"unknown status", domain.Filter{Status: "archived"}, domain.Page{}, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.List(ctx, tc.filter, tc.page)
			if err != nil {
				t.Fatal(err)
			}
			if res.Total != tc.total || len(res.Reports) != len(tc.wantIDs) {
				t.Fatalf("total=%d len=%d", res.Total, len(res.Reports))
			}
			for i, id := range tc.wantIDs {
				if res.Reports[i].ID != id {
					t.Fatalf("pos %d = %s want %s", i, res.Reports[i].ID, id)
				}
			}
		})
	}

	res, _ := s.List(ctx, domain.Filter{}, domain.Page{Limit: 9999, Offset: -3})
	if res.Limit != domain.MaxLimit || res.Offset != 0 {
		t.Fatalf("page not clamped: %d %d", res.Limit, res.Offset)
	}
}

func TestSetStatus(t *testing.T) {
	s, rec := newStore(t, nil)
	ctx := context.Background()
	r, _ := s.Submit(ctx, pothole())

	if _, err := s.SetStatus(ctx, r.ID, "archived"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("archived err = %v", err)
	}
	unchanged, _ := s.Get(ctx, r.ID)
	if unchanged.Status != domain.StatusOpen || !unchanged.UpdatedAt.Equal(r.UpdatedAt) {
		t.Fatal("invalid status changed the report")
	}
	if _, err := s.SetStatus(ctx, "CR-2026-NOPE00", domain.StatusClosed); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing err = %v", err)
	}

	// permissive transitions: resolved back to open is fine
	for _, st := range []domain.Status{domain.StatusResolved, domain.StatusOpen, domain.StatusClosed} {
		got, err := s.SetStatus(ctx, r.ID, st)
		if err != nil || got.Status != st {
			t.Fatalf("SetStatus(%s) = %v %v", st, got.Status, err)
		}
		if !got.UpdatedAt.After(r.SubmittedAt) {
			t.Fatal("updatedAt not bumped")
		}
	}
	evs := rec.all()
	last := evs[len(evs)-1]
	if last.Kind != domain.EventStatusChanged || last.StatusChanged.Status != domain.StatusClosed {
		t.Fatalf("last event = %+v", last)
	}
	if last.Stats.ByStatus[domain.StatusClosed] != 1 || last.Stats.ByStatus[domain.StatusOpen] != 0 {
		t.Fatalf("stats = %+v", last.Stats)
	}
}

func TestReassign(t *testing.T) {
	s, rec := newStore(t, nil)
	ctx := context.Background()
	r, _ := s.Submit(ctx, pothole())

	if _, err := s.Reassign(ctx, r.ID, "parks"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown dept err = %v", err)
	}
	if _, err := s.Reassign(ctx, "CR-2026-NOPE00", "sanitation"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing err = %v", err)
	}
	got, err := s.Reassign(ctx, r.ID, "sanitation")
	if err != nil {
		t.Fatal(err)
	}
	if got.AssignedDepartment != "sanitation" || got.AssignedDepartmentName == r.AssignedDepartmentName {
		t.Fatalf("reassigned = %+v", got)
	}
	if got.RoutingConfidence != r.RoutingConfidence || got.RoutingReason != r.RoutingReason {
		t.Fatal("routing details must stay historical")
	}
	last := rec.all()[len(rec.all())-1]
	if last.Kind != domain.EventReassigned || last.Reassigned.NewDepartment.ID != "sanitation" {
		t.Fatalf("event = %+v", last)
	}
	if last.Stats.ByDepartment["sanitation"] != 1 || last.Stats.ByDepartment["road-maintenance"] != 0 {
		t.Fatalf("stats = %+v", last.Stats.ByDepartment)
	}
}

func TestStatistics_ZeroFilledAndConsistent(t *testing.T) {
	s, rec := newStore(t, nil)
	ctx := context.Background()
	st := s.Statistics(ctx)
	if st.Total != 0 || len(st.ByStatus) != 5 || len(st.ByDepartment) != 5 {
		t.Fatalf("empty stats = %+v", st)
	}
	for i := 0; i < 4; i++ {
		r, _ := s.Submit(ctx, pothole())
		if i%2 == 0 {
			_, _ = s.SetStatus(ctx, r.ID, domain.StatusInProgress)
		}
	}
	for _, ev := range rec.all() {
		var byStatus, byDept int
		for _, n := range ev.Stats.ByStatus {
			byStatus += n
		}
		for _, n := range ev.Stats.ByDepartment {
			byDept += n
		}
		if byStatus != ev.Stats.Total || byDept != ev.Stats.Total {
			t.Fatalf("seq %d: sums %d/%d total %d", ev.Seq, byStatus, byDept, ev.Stats.Total)
		}
	}
	if got := s.Statistics(ctx).Total; got != s.Len() {
		t.Fatalf("total %d len %d", got, s.Len())
	}
}

func TestConcurrentSubmits(t *testing.T) {
	s, rec := newStore(t, func(o *Options) { o.Now = time.Now })
	ctx := context.Background()
	const n = 2
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := s.Submit(ctx, pothole())
			if err != nil {
				t.Error(err)
				return
			}
			ids[i] = r.ID
		}()
	}
	wg.Wait()
	if ids[0] == ids[1] || s.Len() != n {
		t.Fatalf("ids=%v len=%d", ids, s.Len())
	}
	evs := rec.all()
	if len(evs) != n || evs[0].Seq != 1 || evs[1].Seq != 2 || evs[1].Stats.Total != 2 {
		t.Fatalf("events = %+v", evs)
	}
}

func TestSubscribe_SnapshotNewestTen(t *testing.T) {
	s, _ := newStore(t, nil)
	ctx := context.Background()
	var last string
	for range 12 {
		r, _ := s.Submit(ctx, pothole())
		last = r.ID
	}
	var snap domain.InitialSync
	if err := s.Subscribe("sess-1", func(is domain.InitialSync) error { snap = is; return nil }); err != nil {
		t.Fatal(err)
	}
	if snap.Total != 12 || len(snap.Recent) != 10 || snap.Recent[0].ID != last || snap.Seq != 12 {
		t.Fatalf("sync total=%d recent=%d seq=%d", snap.Total, len(snap.Recent), snap.Seq)
	}
	err := s.Subscribe("sess-2", func(domain.InitialSync) error { return errors.New("hub closed") })
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("attach err = %v", err)
	}
}

type memJournal struct {
	mu       sync.Mutex
	rows     map[string]domain.Report
	failNext error
	conflict int
}

func newMemJournal() *memJournal { return &memJournal{rows: map[string]domain.Report{}} }

func (j *memJournal) Insert(_ context.Context, r domain.Report) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failNext != nil {
		err := j.failNext
		j.failNext = nil
		return err
	}
	if j.conflict > 0 {
		j.conflict--
		return perr.New(perr.ErrorCodeConflict, "duplicate key")
	}
	j.rows[r.ID] = r.Clone()
	return nil
}

func (j *memJournal) UpdateStatus(_ context.Context, id string, st domain.Status, at time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.failNext != nil {
		err := j.failNext
		j.failNext = nil
		return err
	}
	r := j.rows[id]
	r.Status, r.UpdatedAt = st, at
	j.rows[id] = r
	return nil
}

func (j *memJournal) UpdateAssignment(_ context.Context, id, dept, name string, at time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	r := j.rows[id]
	r.AssignedDepartment, r.AssignedDepartmentName, r.UpdatedAt = dept, name, at
	j.rows[id] = r
	return nil
}

func (j *memJournal) All(context.Context) ([]domain.Report, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]domain.Report, 0, len(j.rows))
	for _, r := range j.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

func TestJournal_WriteThroughAndRestore(t *testing.T) {
	j := newMemJournal()
	s, _ := newStore(t, func(o *Options) { o.Journal = j })
	ctx := context.Background()

	a, _ := s.Submit(ctx, pothole())
	b, _ := s.Submit(ctx, pothole())
	if _, err := s.SetStatus(ctx, a.ID, domain.StatusUnderReview); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Reassign(ctx, b.ID, "general"); err != nil {
		t.Fatal(err)
	}

	fresh, _ := newStore(t, func(o *Options) { o.Journal = j })
	n, err := fresh.Restore(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Restore = %d %v", n, err)
	}
	ra, _ := fresh.Get(ctx, a.ID)
	rb, _ := fresh.Get(ctx, b.ID)
	if ra.Status != domain.StatusUnderReview || rb.AssignedDepartment != "general" {
		t.Fatalf("restored a=%s b=%s", ra.Status, rb.AssignedDepartment)
	}
}

func TestJournal_FailureLeavesStoreUnchanged(t *testing.T) {
	j := newMemJournal()
	s, rec := newStore(t, func(o *Options) { o.Journal = j })
	ctx := context.Background()

	j.failNext = errors.New("connection reset")
	if _, err := s.Submit(ctx, pothole()); !perr.IsCode(err, perr.ErrorCodeInternal) {
		t.Fatalf("err = %v", err)
	}
	if s.Len() != 0 || len(rec.all()) != 0 {
		t.Fatal("failed insert mutated the store")
	}

	r, _ := s.Submit(ctx, pothole())
	j.failNext = errors.New("connection reset")
	if _, err := s.SetStatus(ctx, r.ID, domain.StatusClosed); !perr.IsCode(err, perr.ErrorCodeInternal) {
		t.Fatalf("err = %v", err)
	}
	if got, _ := s.Get(ctx, r.ID); got.Status != domain.StatusOpen {
		t.Fatal("failed update mutated the report")
	}
}

func TestJournal_ConflictDrawsNewID(t *testing.T) {
	j := newMemJournal()
	j.conflict = 2
	s, _ := newStore(t, func(o *Options) { o.Journal = j })
	if _, err := s.Submit(context.Background(), pothole()); err != nil {
		t.Fatal(err)
	}
	j.conflict = idAttempts
	if _, err := s.Submit(context.Background(), pothole()); !perr.IsCode(err, perr.ErrorCodeInternal) {
		t.Fatalf("exhausted err = %v", err)
	}
}

func TestRestore_UnknownDepartment(t *testing.T) {
	j := newMemJournal()
	j.rows["CR-2026-OLD001"] = domain.Report{ID: "CR-2026-OLD001", AssignedDepartment: "parks"}
	s, _ := newStore(t, func(o *Options) { o.Journal = j })
	if _, err := s.Restore(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
