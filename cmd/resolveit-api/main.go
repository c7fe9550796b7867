// @title         resolveit API
// @version       1.0
// @description   Civic report intake, department routing and live triage feed
// @BasePath      /api/v1
// @securityDefinitions.apikey BearerAuth
// @in            header
// @name          Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"resolveit/internal/core/registry"
	"resolveit/internal/core/routing"
	"resolveit/internal/modkit/repokit"
	"resolveit/internal/platform/config"
	"resolveit/internal/platform/logger"
	phttp "resolveit/internal/platform/net/http"
	"resolveit/internal/platform/store"

	"resolveit/internal/services/api"

	"github.com/spf13/pflag"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	fs := pflag.NewFlagSet("resolveit-api", pflag.ExitOnError)
	addr := fs.String("addr", "", "listen address, overrides CORE_API_PORT")
	deptFile := fs.String("departments", root.MayString("CORE_DEPARTMENTS_FILE", ""), "YAML or JSON department file, embedded set when empty")
	rulesFile := fs.String("rules", root.MayString("CORE_ROUTING_FILE", ""), "YAML or JSON routing table, embedded table when empty")
	_ = fs.Parse(os.Args[1:])

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := loadRegistry(*deptFile)
	if err != nil {
		l.Panic().Err(err).Str("file", *deptFile).Msg("department registry")
	}
	tbl, err := loadTable(*rulesFile)
	if err != nil {
		l.Panic().Err(err).Str("file", *rulesFile).Msg("routing table")
	}
	rt, err := routing.New(tbl, reg)
	if err != nil {
		l.Panic().Err(err).Msg("routing table does not match registry")
	}
	l.Info().Int("departments", reg.Len()).Int("rules", len(tbl.Rules)).Msg("routing ready")

	// optional journal and analytics backends
	st, err := store.Open(ctx, store.FromConf(root, "resolveit-api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	a := api.New(api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Departments:    reg,
		Routing:        rt,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)
	if *addr != "" {
		srv.SetAddr(*addr)
	}
	a.Mount(srv.Router())

	if err := a.Start(ctx); err != nil {
		l.Panic().Err(err).Msg("module startup failed")
	}

	// run until SIGINT or SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Load()
	}
	return registry.LoadFile(path)
}

func loadTable(path string) (routing.Table, error) {
	if path == "" {
		return routing.LoadTable()
	}
	return routing.LoadTableFile(path)
}
