// Package service owns the authoritative report collection.
// Every read and write goes through one RWMutex; publishing happens while the
// write lock is held, so observers see mutations in the order they were applied
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"resolveit/internal/core/registry"
	"resolveit/internal/core/routing"
	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/logger"
	"resolveit/internal/services/api/reports/domain"
)

// idAttempts bounds id regeneration on a collision
const idAttempts = 5

// Service defines the service contract for reports
type Service interface {
	domain.ServicePort
	domain.Feed
}

// Options wires a Store. Registry and Router are required
type Options struct {
	Registry  *registry.Registry
	Router    *routing.Router
	Publisher domain.Publisher
	Journal   domain.Journal
	// Recent is the initial sync size; defaults to 10
	Recent int
	Log    *logger.Logger
	Now    func() time.Time
	Rand   io.Reader
}

// Store is the in-memory report collection
type Store struct {
	mu      sync.RWMutex
	reports []*domain.Report // submission order
	byID    map[string]int
	seq     uint64

	deps    *registry.Registry
	router  *routing.Router
	pub     domain.Publisher
	journal domain.Journal
	recent  int
	log     *logger.Logger
	now     func() time.Time
	rnd     io.Reader
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.Event) {}

// New creates an empty store
func New(opt Options) *Store {
	if opt.Registry == nil || opt.Router == nil {
		panic("reports.Store requires a registry and a router")
	}
	s := &Store{
		byID:    make(map[string]int),
		deps:    opt.Registry,
		router:  opt.Router,
		pub:     opt.Publisher,
		journal: opt.Journal,
		recent:  opt.Recent,
		log:     opt.Log,
		now:     opt.Now,
		rnd:     opt.Rand,
	}
	if s.pub == nil {
		s.pub = nopPublisher{}
	}
	if s.recent <= 0 {
		s.recent = 10
	}
	if s.log == nil {
		s.log = logger.Named("reports")
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rnd == nil {
		s.rnd = rand.Reader
	}
	return s
}

// timestamps are kept at microsecond precision so they survive the journal
func (s *Store) stamp() time.Time { return s.now().UTC().Truncate(time.Microsecond) }

// Restore loads journaled reports. It must run before the store serves traffic
func (s *Store) Restore(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	all, err := s.journal.All(ctx)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeInternal, "restore reports")
	}
	slices.SortStableFunc(all, func(a, b domain.Report) int { return a.SubmittedAt.Compare(b.SubmittedAt) })

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range all {
		if !s.deps.Has(r.AssignedDepartment) {
			return 0, perr.Internalf("restore: report %s names unknown department %q", r.ID, r.AssignedDepartment)
		}
		if _, dup := s.byID[r.ID]; dup {
			continue
		}
		s.insertLocked(r.Clone())
	}
	return len(s.reports), nil
}

func (s *Store) insertLocked(r domain.Report) {
	s.byID[r.ID] = len(s.reports)
	s.reports = append(s.reports, &r)
}

// Submit classifies in, stores it as a new open report and publishes report:new
func (s *Store) Submit(ctx context.Context, in domain.SubmitInput) (domain.Report, error) {
	res := s.router.Classify(routing.Input{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Category:    string(in.Category),
	})
	dept, ok := s.deps.Lookup(res.DepartmentID)
	if !ok {
		return domain.Report{}, perr.Internalf("router chose unknown department %q", res.DepartmentID)
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	r := domain.Report{
		Title:                  in.Title,
		Description:            in.Description,
		Location:               in.Location,
		Category:               in.Category,
		Priority:               priority,
		ReporterName:           in.ReporterName,
		ReporterEmail:          in.ReporterEmail,
		ReporterPhone:          in.ReporterPhone,
		Latitude:               in.Latitude,
		Longitude:              in.Longitude,
		Images:                 slices.Clone(in.Images),
		Status:                 domain.StatusOpen,
		AssignedDepartment:     dept.ID,
		AssignedDepartmentName: dept.Name,
		RoutingConfidence:      res.Confidence,
		RoutingReason:          res.Reason,
		SubmittedAt:            now,
		UpdatedAt:              now,
	}
	r = r.Clone()

	if err := s.allocateLocked(ctx, &r); err != nil {
		return domain.Report{}, err
	}
	s.insertLocked(r)

	s.publishLocked(domain.Event{
		Kind: domain.EventReportCreated,
		Created: &domain.ReportCreated{
			Report:     r.Clone(),
			Department: dept,
			Routing:    domain.RoutingDetails{Confidence: res.Confidence, Reason: res.Reason},
		},
	})
	s.log.Info().
		Str("report_id", r.ID).
		Str("department", r.AssignedDepartment).
		Float64("confidence", r.RoutingConfidence).
		Msg("report submitted")
	return r.Clone(), nil
}

// allocateLocked picks an unused id and journals the report under it. A collision
// with memory or with the journal's primary key draws a new id
func (s *Store) allocateLocked(ctx context.Context, r *domain.Report) error {
	for range idAttempts {
		id, err := s.newID(r.SubmittedAt)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeInternal, "generate report id")
		}
		if _, taken := s.byID[id]; taken {
			s.log.Warn().Str("report_id", id).Msg("report id collision")
			continue
		}
		r.ID = id
		if s.journal == nil {
			return nil
		}
		err = s.journal.Insert(ctx, *r)
		switch {
		case err == nil:
			return nil
		case perr.IsCode(err, perr.ErrorCodeConflict):
			s.log.Warn().Str("report_id", id).Msg("report id collision in journal")
			continue
		default:
			s.log.Error().Err(err).Str("report_id", id).Msg("journal insert failed")
			return perr.Wrap(err, perr.ErrorCodeInternal, "persist report")
		}
	}
	return perr.Internalf("could not allocate a report id after %d attempts", idAttempts)
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newID returns CR-<year>-<6 uppercase alphanumerics>
func (s *Store) newID(at time.Time) (string, error) {
	var suffix [6]byte
	var buf [1]byte
	for i := 0; i < len(suffix); {
		if _, err := io.ReadFull(s.rnd, buf[:]); err != nil {
			return "", err
		}
		// 252 is the largest multiple of 36 below 256; rejecting above it avoids bias
		if buf[0] >= 252 {
			continue
		}
		suffix[i] = idAlphabet[buf[0]%36]
		i++
	}
	return fmt.Sprintf("CR-%d-%s", at.Year(), suffix[:]), nil
}

// List returns the filtered reports newest first, then the requested window
func (s *Store) List(_ context.Context, f domain.Filter, p domain.Page) (domain.ListResult, error) {
	p = p.Normalize()

	s.mu.RLock()
	var hits []domain.Report
	for i := len(s.reports) - 1; i >= 0; i-- {
		if r := s.reports[i]; f.Matches(r) {
			hits = append(hits, r.Clone())
		}
	}
	s.mu.RUnlock()

	// newest first; equal timestamps keep the later submission first
	slices.SortStableFunc(hits, func(a, b domain.Report) int { return b.SubmittedAt.Compare(a.SubmittedAt) })

	out := domain.ListResult{Reports: []domain.Report{}, Total: len(hits), Limit: p.Limit, Offset: p.Offset}
	if p.Offset < len(hits) {
		out.Reports = hits[p.Offset:min(p.Offset+p.Limit, len(hits))]
	}
	return out, nil
}

// Get returns a copy of report id
func (s *Store) Get(_ context.Context, id string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, err := s.findLocked(id)
	if err != nil {
		return domain.Report{}, err
	}
	return r.Clone(), nil
}

func (s *Store) findLocked(id string) (*domain.Report, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, perr.WithField(perr.NotFoundf("report %q not found", id), "id")
	}
	return s.reports[i], nil
}

// touch returns a new updatedAt that never precedes submittedAt
func (s *Store) touch(r *domain.Report) time.Time {
	now := s.stamp()
	if now.Before(r.SubmittedAt) {
		now = r.SubmittedAt
	}
	return now
}

// SetStatus moves report id to status. Every transition is allowed
func (s *Store) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Report, error) {
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return domain.Report{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.findLocked(id)
	if err != nil {
		return domain.Report{}, err
	}
	at := s.touch(r)
	if s.journal != nil {
		if err := s.journal.UpdateStatus(ctx, id, status, at); err != nil {
			s.log.Error().Err(err).Str("report_id", id).Msg("journal status update failed")
			return domain.Report{}, perr.Wrap(err, perr.ErrorCodeInternal, "persist status")
		}
	}
	prev := r.Status
	r.Status, r.UpdatedAt = status, at

	s.publishLocked(domain.Event{
		Kind:          domain.EventStatusChanged,
		StatusChanged: &domain.StatusChanged{ReportID: id, Status: status, UpdatedAt: at},
	})
	s.log.Info().Str("report_id", id).Str("from", string(prev)).Str("to", string(status)).Msg("report status updated")
	return r.Clone(), nil
}

// Reassign moves report id to departmentID. Routing confidence and reason stay as classified
func (s *Store) Reassign(ctx context.Context, id, departmentID string) (domain.Report, error) {
	dept, ok := s.deps.Lookup(departmentID)
	if !ok {
		return domain.Report{}, perr.WithField(perr.InvalidArgf("invalid department id %q", departmentID), "departmentId")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.findLocked(id)
	if err != nil {
		return domain.Report{}, err
	}
	at := s.touch(r)
	if s.journal != nil {
		if err := s.journal.UpdateAssignment(ctx, id, dept.ID, dept.Name, at); err != nil {
			s.log.Error().Err(err).Str("report_id", id).Msg("journal reassignment failed")
			return domain.Report{}, perr.Wrap(err, perr.ErrorCodeInternal, "persist reassignment")
		}
	}
	prev := r.AssignedDepartment
	r.AssignedDepartment, r.AssignedDepartmentName, r.UpdatedAt = dept.ID, dept.Name, at

	s.publishLocked(domain.Event{
		Kind: domain.EventReassigned,
		Reassigned: &domain.Reassigned{
			ReportID:      id,
			NewDepartment: domain.DepartmentRef{ID: dept.ID, Name: dept.Name},
			UpdatedAt:     at,
		},
	})
	s.log.Info().Str("report_id", id).Str("from", prev).Str("to", dept.ID).Msg("report reassigned")
	return r.Clone(), nil
}

// Statistics computes a fresh snapshot
func (s *Store) Statistics(context.Context) domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

func (s *Store) statsLocked() domain.Statistics {
	st := domain.Statistics{
		Total:        len(s.reports),
		ByStatus:     make(map[domain.Status]int, len(domain.Statuses)),
		ByDepartment: make(map[string]int, s.deps.Len()),
	}
	for _, status := range domain.Statuses {
		st.ByStatus[status] = 0
	}
	for _, id := range s.deps.IDs() {
		st.ByDepartment[id] = 0
	}
	for _, r := range s.reports {
		st.ByStatus[r.Status]++
		st.ByDepartment[r.AssignedDepartment]++
	}
	return st
}

func (s *Store) publishLocked(ev domain.Event) {
	s.seq++
	ev.Seq = s.seq
	ev.Stats = s.statsLocked()
	s.pub.Publish(ev)
}

// Subscribe hands attach the initial sync. No mutation can run while attach
// executes, so the session's first event is exactly the one after the snapshot
func (s *Store) Subscribe(sessionID string, attach func(domain.InitialSync) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := min(s.recent, len(s.reports))
	recent := make([]domain.Report, 0, n)
	for i := len(s.reports) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, s.reports[i].Clone())
	}
	slices.SortStableFunc(recent, func(a, b domain.Report) int { return b.SubmittedAt.Compare(a.SubmittedAt) })

	if err := attach(domain.InitialSync{Seq: s.seq, Total: len(s.reports), Recent: recent}); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "attach session %s", sessionID)
	}
	return nil
}

// Len is the number of stored reports
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
