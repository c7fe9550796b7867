// Package http is the websocket transport for observer sessions
package http

import (
	stdhttp "net/http"
	"slices"
	"time"

	"resolveit/internal/modkit/httpkit"
	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/logger"
	pnet "resolveit/internal/platform/net"
	"resolveit/internal/platform/net/middleware"
	"resolveit/internal/services/api/realtime/domain"
	"resolveit/internal/services/api/realtime/service"
	reports "resolveit/internal/services/api/reports/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	maxClientMsg = 4 << 10
)

// Hub is the session surface the transport drives
type Hub interface {
	Connect(feed reports.Feed) (*service.Session, error)
	Join(id string) error
	Leave(id string) error
	Detach(id string)
	Info() domain.SessionsInfo
}

// Deps are the handler dependencies
type Deps struct {
	Hub  Hub
	Feed reports.Feed
	Auth middleware.AuthPort
	// Origins allowed to open a socket; empty or "*" allows any
	Origins []string
	// Ping is the keepalive interval; the peer must answer within twice that
	Ping time.Duration
}

type handlers struct {
	deps Deps
	up   websocket.Upgrader
}

func newHandlers(d Deps) *handlers {
	if d.Ping <= 0 {
		d.Ping = 30 * time.Second
	}
	h := &handlers{deps: d}
	h.up = websocket.Upgrader{
		ReadBufferSize:  1 << 10,
		WriteBufferSize: 4 << 10,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Register mounts the operator routes that live under the REST stack
func Register(r httpkit.Router, d Deps) {
	h := newHandlers(d)
	httpkit.Protected(r, d.Auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/sessions", h.sessions)
	})
}

// RegisterStream mounts the websocket endpoint at path. It takes the full path so it
// can share a parent router with the REST subtree while skipping that subtree's timeout
func RegisterStream(r httpkit.Router, path string, d Deps) {
	h := newHandlers(d)
	httpkit.Protected(r, d.Auth, func(pr httpkit.Router) {
		pr.Get(path, h.stream)
	})
}

func (h *handlers) checkOrigin(r *stdhttp.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.deps.Origins) == 0 || slices.Contains(h.deps.Origins, "*") {
		return true
	}
	return slices.Contains(h.deps.Origins, origin)
}

// @Summary Observer session counts
// @Tags Realtime
// @Produce json
// @Success 200 {object} domain.SessionsInfo
// @Router /realtime/sessions [get]
func (h *handlers) sessions(*stdhttp.Request) (any, error) {
	return h.deps.Hub.Info(), nil
}

// @Summary Open an observer session
// @Description Upgrades to a websocket. The first frames are reports:count and reports:recent,
// @Description then every report:new, report:status-updated and report:reassigned with a reports:stats frame each.
// @Tags Realtime
// @Param encoding query string false "json (text frames, default) or cbor (binary frames)"
// @Success 101
// @Router /realtime/ws [get]
func (h *handlers) stream(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	enc, err := codecFor(r.URL.Query().Get("encoding"))
	if err != nil {
		httpkit.Fail(w, r, err)
		return
	}
	conn, err := h.up.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already answered
		logger.C(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sess, err := h.deps.Hub.Connect(h.deps.Feed)
	if err != nil {
		h.refuse(conn, enc, r, err)
		return
	}
	log := logger.C(logger.WithSession(r.Context(), sess.ID()))
	log.Info().Str("encoding", enc.name).Str("actor", httpkit.Actor(r)).Msg("observer connected")

	go h.readLoop(conn, sess.ID(), log)
	reason := h.writeLoop(conn, sess, enc)
	h.deps.Hub.Detach(sess.ID())
	log.Info().Str("reason", reason).Msg("observer disconnected")
}

// refuse sends one error frame and a close message
func (h *handlers) refuse(conn *websocket.Conn, enc codec, r *stdhttp.Request, err error) {
	env := pnet.Failure(err, pnet.RequestID(r.Context()))
	if b, mErr := enc.encode(domain.Frame{Type: domain.FrameError, Data: env}); mErr == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(enc.msgType, b)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseTryAgainLater, env.Error), time.Now().Add(writeWait))
}

// writeLoop owns every write on conn. It returns when the hub drops the session or a write fails
func (h *handlers) writeLoop(conn *websocket.Conn, sess *service.Session, enc codec) string {
	ping := time.NewTicker(h.deps.Ping)
	defer ping.Stop()
	for {
		select {
		case f, ok := <-sess.Frames():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				code := websocket.CloseNormalClosure
				if sess.Reason() == "lagging" {
					code = websocket.ClosePolicyViolation
				}
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, sess.Reason()))
				return sess.Reason()
			}
			b, err := enc.encode(f)
			if err != nil {
				return "encode: " + err.Error()
			}
			if err := conn.WriteMessage(enc.msgType, b); err != nil {
				return "write: " + err.Error()
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return "ping: " + err.Error()
			}
		}
	}
}

// readLoop handles client messages and pongs; any read failure detaches the session,
// which closes its frame channel and ends the write loop
func (h *handlers) readLoop(conn *websocket.Conn, id string, log *logger.Logger) {
	defer h.deps.Hub.Detach(id)
	wait := 2 * h.deps.Ping
	conn.SetReadLimit(maxClientMsg)
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(wait)) })
	for {
		mt, b, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("observer read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wait))
		msg, err := decodeMessage(mt, b)
		if err != nil {
			log.Debug().Err(err).Msg("unreadable client message")
			continue
		}
		switch msg.Type {
		case domain.MsgJoin:
			err = h.deps.Hub.Join(id)
		case domain.MsgLeave:
			err = h.deps.Hub.Leave(id)
		default:
			err = perr.InvalidArgf("unknown message type %q", msg.Type)
		}
		if err != nil {
			log.Debug().Err(err).Str("type", msg.Type).Msg("client message ignored")
		}
	}
}
