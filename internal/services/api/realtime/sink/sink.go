// Package sink copies report events into ClickHouse for analytics. It rides the hub
// as an ordinary session, so a slow ClickHouse only ever costs the sink its own events
package sink

import (
	"context"
	"fmt"
	"time"

	"resolveit/internal/platform/config"
	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/logger"
	"resolveit/internal/platform/store/ch"
	"resolveit/internal/services/api/realtime/domain"
	"resolveit/internal/services/api/realtime/service"
	reports "resolveit/internal/services/api/reports/domain"
)

// Columns of the events table, in row order
var Columns = []string{"seq", "kind", "report_id", "department", "status", "occurred_at", "total"}

const ddl = `CREATE TABLE IF NOT EXISTS %s (
	seq         UInt64,
	kind        LowCardinality(String),
	report_id   String,
	department  LowCardinality(String),
	status      LowCardinality(String),
	occurred_at DateTime64(6, 'UTC'),
	total       UInt32
) ENGINE = MergeTree ORDER BY (occurred_at, seq)`

// Writer is the ClickHouse surface the sink needs
type Writer interface {
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
}

// Hub is how the sink attaches
type Hub interface {
	Connect(feed reports.Feed) (*service.Session, error)
	Detach(id string)
}

// Options configures batching
type Options struct {
	Table string
	Batch int
	Flush time.Duration
	// Retry is the pause before reattaching after the hub dropped the sink
	Retry time.Duration
	Log   *logger.Logger
}

// FromConf reads SERVICE_CLICKHOUSE_TABLE, _BATCH and _FLUSH
func FromConf(cfg config.Conf) Options {
	c := cfg.Prefix("SERVICE_CLICKHOUSE_")
	return Options{
		Table: c.MayString("TABLE", "report_events"),
		Batch: c.MayInt("BATCH", 500),
		Flush: c.MayDuration("FLUSH", 5*time.Second),
		Retry: c.MayDuration("RETRY", time.Second),
	}
}

// Sink batches event rows and flushes on size or interval
type Sink struct {
	w    Writer
	hub  Hub
	feed reports.Feed
	opt  Options
	log  *logger.Logger

	buf     [][]any
	written uint64
}

// New validates the table name and fills defaults
func New(w Writer, hub Hub, feed reports.Feed, opt Options) (*Sink, error) {
	if opt.Table == "" {
		opt.Table = "report_events"
	}
	if err := ch.CheckTable(opt.Table); err != nil {
		return nil, perr.WithField(perr.InvalidArgf("%v", err), "SERVICE_CLICKHOUSE_TABLE")
	}
	if opt.Batch <= 0 {
		opt.Batch = 500
	}
	if opt.Flush <= 0 {
		opt.Flush = 5 * time.Second
	}
	if opt.Retry <= 0 {
		opt.Retry = time.Second
	}
	if opt.Log == nil {
		opt.Log = logger.Named("sink")
	}
	return &Sink{w: w, hub: hub, feed: feed, opt: opt, log: opt.Log}, nil
}

// EnsureTable creates the events table
func (s *Sink) EnsureTable(ctx context.Context) error {
	if err := s.w.Exec(ctx, fmt.Sprintf(ddl, s.opt.Table)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "create %s", s.opt.Table)
	}
	return nil
}

// Written is the number of rows sent so far; only meaningful once Run returned
func (s *Sink) Written() uint64 { return s.written }

// Run attaches to the hub and writes until ctx ends or the hub closes.
// Being dropped for lagging costs the events published meanwhile; the sink reattaches
func (s *Sink) Run(ctx context.Context) error {
	defer s.final()
	for {
		sess, err := s.hub.Connect(s.feed)
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeUnavailable) {
				return nil
			}
			return err
		}
		reason := s.consume(ctx, sess)
		if ctx.Err() != nil {
			s.hub.Detach(sess.ID())
			return nil
		}
		if reason == "shutdown" {
			return nil
		}
		s.log.Warn().Str("reason", reason).Dur("retry", s.opt.Retry).Msg("sink detached, reattaching")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.opt.Retry):
		}
	}
}

func (s *Sink) consume(ctx context.Context, sess *service.Session) string {
	tick := time.NewTicker(s.opt.Flush)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			s.drain(sess)
			return "context done"
		case f, ok := <-sess.Frames():
			if !ok {
				return sess.Reason()
			}
			if s.add(f) {
				s.flush(ctx)
			}
		case <-tick.C:
			s.flush(ctx)
		}
	}
}

// add buffers f and reports whether its row filled a batch.
// Frames without a row never trigger a flush, so a failed batch waits for the next row or tick
func (s *Sink) add(f domain.Frame) bool {
	row, ok := Row(f)
	if !ok {
		return false
	}
	s.buf = append(s.buf, row)
	return len(s.buf) >= s.opt.Batch
}

// drain buffers frames already queued for the session
func (s *Sink) drain(sess *service.Session) {
	for {
		select {
		case f, ok := <-sess.Frames():
			if !ok {
				return
			}
			s.add(f)
		default:
			return
		}
	}
}

// final flushes what is left on a fresh deadline
func (s *Sink) final() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.flush(ctx)
}

// flush keeps a failed batch for the next attempt until it grows past four batches
func (s *Sink) flush(ctx context.Context) {
	if len(s.buf) == 0 {
		return
	}
	if err := s.w.InsertRows(ctx, s.opt.Table, Columns, s.buf); err != nil {
		if len(s.buf) >= 4*s.opt.Batch {
			s.log.Error().Err(err).Int("rows", len(s.buf)).Msg("analytics rows discarded")
			s.buf = s.buf[:0]
			return
		}
		s.log.Warn().Err(err).Int("rows", len(s.buf)).Msg("analytics flush failed, will retry")
		return
	}
	s.written += uint64(len(s.buf))
	s.log.Debug().Int("rows", len(s.buf)).Msg("analytics flushed")
	s.buf = s.buf[:0]
}

// Row maps a mutation frame onto an events row; sync and stats frames yield nothing
func Row(f domain.Frame) ([]any, bool) {
	ev := f.Event
	if ev == nil || f.Type != string(ev.Kind) {
		return nil, false
	}
	var dept, status string
	var at time.Time
	switch {
	case ev.Created != nil:
		dept, status, at = ev.Created.Report.AssignedDepartment, string(ev.Created.Report.Status), ev.Created.Report.SubmittedAt
	case ev.StatusChanged != nil:
		status, at = string(ev.StatusChanged.Status), ev.StatusChanged.UpdatedAt
	case ev.Reassigned != nil:
		dept, at = ev.Reassigned.NewDepartment.ID, ev.Reassigned.UpdatedAt
	default:
		return nil, false
	}
	return []any{ev.Seq, string(ev.Kind), ev.ReportID(), dept, status, at.UTC(), uint32(ev.Stats.Total)}, true
}
