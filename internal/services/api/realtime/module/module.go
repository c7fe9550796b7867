// Package module wires observer sessions into the API using modkit
package module

import (
	"context"
	"time"

	modkit "resolveit/internal/modkit"
	"resolveit/internal/modkit/httpkit"
	"resolveit/internal/platform/logger"
	str "resolveit/internal/platform/strings"
	rthttp "resolveit/internal/services/api/realtime/http"
	"resolveit/internal/services/api/realtime/service"
	"resolveit/internal/services/api/realtime/sink"
	reports "resolveit/internal/services/api/reports/domain"
)

// Ports are what other modules consume from realtime
type Ports struct {
	Publisher reports.Publisher
	Hub       *service.Hub
}

// Inbound carries the hub, built before the report store so the store can publish to it,
// and the store's feed
type Inbound struct {
	Hub  *service.Hub
	Feed reports.Feed
}

// Module implements the modkit.Module and module.Streamer interfaces
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	log   *logger.Logger

	hub  *service.Hub
	feed reports.Feed
	http rthttp.Deps
}

// New constructs the realtime module; without an inbound hub it builds its own from config
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("realtime"), modkit.WithPrefix("/realtime")}, opts...)
	m := &Module{deps: deps, built: b, log: deps.Logger("realtime")}

	switch p := b.Ports.(type) {
	case Inbound:
		m.hub, m.feed = p.Hub, p.Feed
	case *Inbound:
		m.hub, m.feed = p.Hub, p.Feed
	}
	if m.hub == nil {
		opt := service.FromConf(deps.Cfg)
		opt.Log = m.log
		m.hub = service.NewHub(opt)
	}

	m.http = rthttp.Deps{
		Hub:     m.hub,
		Feed:    m.feed,
		Auth:    b.Auth,
		Origins: deps.Cfg.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", nil),
		Ping:    deps.Cfg.Prefix("CORE_REALTIME_").MayDuration("PING", 30*time.Second),
	}
	return m
}

// Start runs the analytics sink when ClickHouse is configured and closes the hub
// when ctx ends so open sockets wind down with the server
func (m *Module) Start(ctx context.Context) error {
	if m.deps.CH != nil && m.feed != nil {
		opt := sink.FromConf(m.deps.Cfg)
		opt.Log = m.deps.Logger("sink")
		s, err := sink.New(m.deps.CH, m.hub, m.feed, opt)
		if err != nil {
			return err
		}
		if err := s.EnsureTable(ctx); err != nil {
			return err
		}
		go func() {
			if err := s.Run(ctx); err != nil {
				m.log.Error().Err(err).Msg("analytics sink stopped")
			}
		}()
		m.log.Info().Str("table", opt.Table).Msg("analytics sink started")
	}
	go func() {
		<-ctx.Done()
		m.hub.Close()
	}()
	return nil
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { rthttp.Register(rr, m.http) })
}

// MountStream implements module.Streamer
func (m *Module) MountStream(r httpkit.Router) {
	if m.feed == nil {
		m.log.Warn().Msg("no report feed wired, websocket endpoint not mounted")
		return
	}
	rthttp.RegisterStream(r, str.MustPrefix(m.built.Prefix)+"/ws", m.http)
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return Ports{Publisher: m.hub, Hub: m.hub} }
