package modkit

import (
	"resolveit/internal/core/registry"
	"resolveit/internal/core/routing"
	"resolveit/internal/modkit/repokit"
	"resolveit/internal/platform/config"
	"resolveit/internal/platform/logger"
	"resolveit/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when the optional backends are not configured
type Deps struct {
	Log         *logger.Logger
	Cfg         config.Conf
	PG          repokit.TxRunner
	CH          store.Clickhouse
	Departments *registry.Registry
	Routing     *routing.Router
}

// Logger returns a component child of the deps logger, or of the root logger when unset
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	l := d.Log.With().Str("component", component).Logger()
	return &l
}
