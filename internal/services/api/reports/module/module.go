// Package module wires reports into the API using modkit
package module

import (
	"context"

	modkit "resolveit/internal/modkit"
	"resolveit/internal/modkit/httpkit"
	"resolveit/internal/modkit/repokit"
	"resolveit/internal/platform/logger"
	"resolveit/internal/services/api/reports/domain"
	reportshttp "resolveit/internal/services/api/reports/http"
	reportsrepo "resolveit/internal/services/api/reports/repo"
	reportssvc "resolveit/internal/services/api/reports/service"
)

// Ports are what other modules consume from reports
type Ports struct {
	Service domain.ServicePort
	Feed    domain.Feed
}

// Inbound are the ports reports needs from other modules, passed with modkit.WithPorts
type Inbound struct {
	Publisher domain.Publisher
}

// Module implements the modkit.Module interface
type Module struct {
	deps  modkit.Deps
	built modkit.Built
	log   *logger.Logger

	store *reportssvc.Store
	repo  reportsrepo.Repo // nil without a journal
	ports Ports
}

// New constructs the reports module. Registry and routing must be set on deps
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("reports"), modkit.WithPrefix("/reports")}, opts...)

	m := &Module{deps: deps, built: b, log: deps.Logger("reports")}

	var in Inbound
	switch p := b.Ports.(type) {
	case Inbound:
		in = p
	case *Inbound:
		in = *p
	}

	var journal domain.Journal
	if deps.PG != nil {
		m.repo = repokit.MustBind(reportsrepo.NewPG(), deps.PG)
		journal = m.repo
	}

	m.store = reportssvc.New(reportssvc.Options{
		Registry:  deps.Departments,
		Router:    deps.Routing,
		Publisher: in.Publisher,
		Journal:   journal,
		Recent:    deps.Cfg.Prefix("CORE_REALTIME_").MayInt("RECENT", 10),
		Log:       m.log,
	})
	m.ports = Ports{Service: m.store, Feed: m.store}
	return m
}

// Start creates the journal table and replays it into memory
func (m *Module) Start(ctx context.Context) error {
	if m.repo == nil {
		m.log.Info().Msg("no journal configured, reports live in memory only")
		return nil
	}
	if err := m.repo.EnsureSchema(ctx); err != nil {
		return err
	}
	n, err := m.store.Restore(ctx)
	if err != nil {
		return err
	}
	m.log.Info().Int("reports", n).Msg("journal restored")
	return nil
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		reportshttp.Register(rr, m.store, m.deps.Departments, m.built.Auth)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
