package repokit

import (
	"context"
	"fmt"
	"time"

	perr "resolveit/internal/platform/errors"
	"resolveit/internal/platform/store"
)

// Pinger is anything with a liveness probe
type Pinger = store.Pinger

// Ping probes p with a 2s default deadline and reports failure as Unavailable
func Ping(ctx context.Context, name string, p Pinger) error {
	if p == nil {
		return perr.Unavailablef("%s: not configured", name)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s ping failed", name)
	}
	return nil
}

// MustGuard runs Guard and panics on any error; startup only
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
