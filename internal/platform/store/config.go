package store

import (
	"time"

	"resolveit/internal/platform/config"
)

// Config aggregates backend settings
type Config struct {
	AppName string
	PG      PGConfig
	CH      CHConfig
}

// PGConfig configures the journal pool and its tracer
type PGConfig struct {
	URL            string
	MaxConns       int32
	LogSQL         bool
	SlowQueryMs    int
	ConnectRetries int
	PingTimeout    time.Duration
}

// Enabled reports whether a URL was configured
func (c PGConfig) Enabled() bool { return c.URL != "" }

// CHConfig configures the analytics connection
type CHConfig struct {
	URL         string
	DialTimeout time.Duration
}

// Enabled reports whether a URL was configured
func (c CHConfig) Enabled() bool { return c.URL != "" }

// FromConf reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* below root
func FromConf(root config.Conf, app string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	return Config{
		AppName: app,
		PG: PGConfig{
			URL:            pg.MayString("DBURL", ""),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 8)),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 200),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 8),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			URL:         ch.MayString("DBURL", ""),
			DialTimeout: ch.MayDuration("DIAL_TIMEOUT", 5*time.Second),
		},
	}
}
