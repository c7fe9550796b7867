// Package api composes the HTTP API: shared deps, the module list and the route tree
package api

import (
	"context"
	"fmt"

	"resolveit/internal/core/registry"
	"resolveit/internal/core/routing"
	"resolveit/internal/platform/config"
	"resolveit/internal/platform/logger"
	phttp "resolveit/internal/platform/net/http"
	"resolveit/internal/platform/net/middleware"
	"resolveit/internal/platform/store"

	"resolveit/internal/modkit"
	"resolveit/internal/modkit/httpkit"
	"resolveit/internal/modkit/module"
	"resolveit/internal/modkit/swaggerkit"

	deptmod "resolveit/internal/services/api/departments/module"
	metamod "resolveit/internal/services/api/meta/module"
	rtmod "resolveit/internal/services/api/realtime/module"
	rtsvc "resolveit/internal/services/api/realtime/service"
	reportsmod "resolveit/internal/services/api/reports/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Departments    *registry.Registry
	Routing        *routing.Router
	EnableSwagger  bool
	EnableProfiler bool
}

// API is the composed module set
type API struct {
	opt   Options
	stack httpkit.StackOptions
	mods  []module.Module
}

// New builds every module and registers its ports
func New(opt Options) *API {
	apiCfg := opt.Config.Prefix("CORE_API_")

	// shared deps for modules
	deps := modkit.Deps{
		Log:         opt.Logger,
		Cfg:         opt.Config,
		Departments: opt.Departments,
		Routing:     opt.Routing,
	}
	if opt.Store != nil {
		deps.PG, deps.CH = opt.Store.PG, opt.Store.CH
	}
	auth := middleware.NewStaticTokens(apiCfg.MayCSV("TOKENS", nil))

	// hub first: reports publishes into it, realtime serves it
	hubOpt := rtsvc.FromConf(opt.Config)
	hubOpt.Log = deps.Logger("realtime")
	hub := rtsvc.NewHub(hubOpt)

	reports := reportsmod.New(deps,
		modkit.WithAuth(auth),
		modkit.WithPorts(reportsmod.Inbound{Publisher: hub}),
	)
	feed := module.MustPortsOf[reportsmod.Ports](reports).Feed

	realtime := rtmod.New(deps,
		modkit.WithAuth(auth),
		modkit.WithPorts(rtmod.Inbound{Hub: hub, Feed: feed}),
	)

	a := &API{
		opt:   opt,
		stack: httpkit.StackFromConf(apiCfg),
		mods: []module.Module{
			metamod.New(deps),
			deptmod.New(deps),
			reports,
			realtime,
		},
	}
	for _, m := range a.mods {
		// register each module's ports under its own name for cross module lookups
		module.Register(m.Name(), m.Ports())
	}
	if auth == nil {
		deps.Logger("api").Warn().Msg("CORE_API_TOKENS unset, triage routes are open")
	}
	return a
}

// Start runs module startup in order; the first failure stops the rest
func (a *API) Start(ctx context.Context) error {
	for _, m := range a.mods {
		if s, ok := m.(module.Starter); ok {
			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("start %s: %w", m.Name(), err)
			}
		}
	}
	return nil
}

// Mount builds the route tree on the root router
func (a *API) Mount(r phttp.Router) {
	r.Use(httpkit.CommonStack(a.stack)...)

	// Swagger + profiler
	swaggerkit.Mount(r, a.opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", a.opt.EnableProfiler)

	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
		api.Group(func(rest httpkit.Router) {
			rest.Use(httpkit.RESTStack(a.stack)...)
			for _, m := range a.mods {
				m.MountRoutes(rest)
			}
		})
		// long lived endpoints skip the REST timeout and compression
		for _, m := range a.mods {
			if s, ok := m.(module.Streamer); ok {
				s.MountStream(api)
			}
		}
	})
}
