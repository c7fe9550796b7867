package store

import (
	"context"
	"fmt"
	"time"

	"resolveit/internal/platform/logger"
	chx "resolveit/internal/platform/store/ch"
	"resolveit/internal/platform/store/pg"
)

// sleep is a seam so retry tests do not wait
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff doubles from 150ms up to a 2s ceiling
func backoff(attempt int) time.Duration {
	if attempt >= 4 {
		return 2 * time.Second
	}
	return 150 * time.Millisecond << attempt
}

// openPG opens the pool and pings it with backoff before publishing the adapter
func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (*pgAdapter, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(log)
	}
	p, err := pg.Open(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns, SlowMs: cfg.SlowQueryMs}, tracer, nil)
	if err != nil {
		return nil, err
	}

	retries := max(cfg.ConnectRetries, 1)
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	var lastErr error
	for i := 0; i < retries; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		log.Warn().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		if err := sleep(ctx, backoff(i)); err != nil {
			p.Close()
			return nil, err
		}
	}
	p.Close()
	return nil, fmt.Errorf("ping failed after %d attempts: %w", retries, lastErr)
}

func openCH(ctx context.Context, cfg CHConfig, app string) (Clickhouse, error) {
	return chx.Open(ctx, chx.Config{
		URL:         cfg.URL,
		DialTimeout: cfg.DialTimeout,
		ClientInfo:  chx.BuildClientInfo("api", app),
	})
}
