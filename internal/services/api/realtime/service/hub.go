// Package service is the observer hub: it receives every report mutation from the
// store and fans it out to connected sessions without ever blocking the store
package service

import (
	"sync"
	"sync/atomic"

	"resolveit/internal/platform/config"
	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/logger"
	"resolveit/internal/services/api/realtime/domain"
	reports "resolveit/internal/services/api/reports/domain"

	"github.com/google/uuid"
)

// minQueue fits the two initial sync frames, or one event with its stats frame
const minQueue = 2

// Options configures a Hub
type Options struct {
	// Group is the broadcast group every session joins on attach
	Group string
	// Queue is the per session frame buffer; a session that fills it is dropped
	Queue int
	Log   *logger.Logger
}

// FromConf reads CORE_REALTIME_GROUP and CORE_REALTIME_QUEUE
func FromConf(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_REALTIME_")
	return Options{
		Group: c.MayString("GROUP", "admin-dashboard"),
		Queue: c.MayInt("QUEUE", 256),
	}
}

// Session is one attached observer. Frames is closed when the session is dropped
type Session struct {
	id     string
	out    chan domain.Frame
	state  atomic.Int32
	reason string // written before out is closed
}

func newSession(id string, queue int) *Session {
	s := &Session{id: id, out: make(chan domain.Frame, queue)}
	s.state.Store(int32(domain.Connecting))
	return s
}

// ID is the session id
func (s *Session) ID() string { return s.id }

// Frames yields the initial sync then live frames, in publish order
func (s *Session) Frames() <-chan domain.Frame { return s.out }

// State is the current lifecycle state
func (s *Session) State() domain.State { return domain.State(s.state.Load()) }

// Reason says why the hub dropped the session; valid once Frames is closed
func (s *Session) Reason() string { return s.reason }

// Hub implements the reports Publisher. Lock order: store, then hub
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	members  map[string]*Session // broadcast group
	closed   bool
	seq      uint64

	group  string
	queue  int
	lagged atomic.Uint64
	log    *logger.Logger
}

// NewHub creates an empty hub
func NewHub(opt Options) *Hub {
	h := &Hub{
		sessions: make(map[string]*Session),
		members:  make(map[string]*Session),
		group:    opt.Group,
		queue:    max(opt.Queue, minQueue),
		log:      opt.Log,
	}
	if h.group == "" {
		h.group = "admin-dashboard"
	}
	if h.log == nil {
		h.log = logger.Named("realtime")
	}
	return h
}

// Group is the broadcast group name
func (h *Hub) Group() string { return h.group }

// Connect subscribes a new session to feed. The session's queue holds the initial
// sync before the store can publish anything else
func (h *Hub) Connect(feed reports.Feed) (*Session, error) {
	id := uuid.NewString()
	var sess *Session
	err := feed.Subscribe(id, func(snap reports.InitialSync) error {
		s, err := h.Attach(id, snap)
		sess = s
		return err
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Attach registers a session with its initial sync queued and joins it to the
// broadcast group. Callers outside Connect must hold the store's subscribe lock
func (h *Hub) Attach(id string, snap reports.InitialSync) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, perr.Unavailablef("realtime hub is closed")
	}
	if _, dup := h.sessions[id]; dup {
		return nil, perr.Newf(perr.ErrorCodeConflict, "session %s already attached", id)
	}

	recent := snap.Recent
	if recent == nil {
		recent = []reports.Report{}
	}
	s := newSession(id, h.queue)
	s.out <- domain.Frame{Type: domain.FrameCount, Seq: snap.Seq, Data: domain.Count{Total: snap.Total}}
	s.out <- domain.Frame{Type: domain.FrameRecent, Seq: snap.Seq, Data: recent}
	s.state.Store(int32(domain.Synced))

	h.sessions[id] = s
	h.members[id] = s
	if snap.Seq > h.seq {
		h.seq = snap.Seq
	}
	h.log.Debug().Str("session_id", id).Int("total", snap.Total).Msg("session synced")
	return s, nil
}

// Publish implements reports.Publisher. Each member gets the event frame and the
// stats frame together or not at all; a member without room for both is dropped
func (h *Hub) Publish(ev reports.Event) {
	frames := [2]domain.Frame{
		{Type: string(ev.Kind), Seq: ev.Seq, Data: ev.Payload(), Event: &ev},
		{Type: domain.FrameStats, Seq: ev.Seq, Data: ev.Stats, Event: &ev},
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq = ev.Seq
	for _, s := range h.members {
		if s.State() != domain.Synced {
			continue
		}
		if cap(s.out)-len(s.out) < len(frames) {
			h.lagged.Add(1)
			h.log.Warn().Str("session_id", s.id).Uint64("seq", ev.Seq).Msg("session lagging, disconnecting")
			h.dropLocked(s, "lagging")
			continue
		}
		for _, f := range frames {
			s.out <- f
		}
	}
}

// Join puts a session back into the broadcast group
func (h *Hub) Join(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		return perr.NotFoundf("session %s not attached", id)
	}
	h.members[id] = s
	return nil
}

// Leave stops live frames for a session without detaching it
func (h *Hub) Leave(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[id]; !ok {
		return perr.NotFoundf("session %s not attached", id)
	}
	delete(h.members, id)
	return nil
}

// Detach drops a session after a transport failure or a clean close; unknown ids are ignored
func (h *Hub) Detach(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		h.dropLocked(s, "closed")
	}
}

func (h *Hub) dropLocked(s *Session, reason string) {
	if s.State() == domain.Disconnected {
		return
	}
	s.state.Store(int32(domain.Disconnected))
	delete(h.sessions, s.id)
	delete(h.members, s.id)
	s.reason = reason
	close(s.out)
	h.log.Debug().Str("session_id", s.id).Str("reason", reason).Msg("session disconnected")
}

// Count is the number of attached sessions
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Info summarizes the hub for operators
func (h *Hub) Info() domain.SessionsInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return domain.SessionsInfo{
		Sessions: len(h.sessions),
		Group:    h.group,
		Members:  len(h.members),
		Lagged:   h.lagged.Load(),
		Seq:      h.seq,
	}
}

// Close drops every session and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, s := range h.sessions {
		h.dropLocked(s, "shutdown")
	}
}
