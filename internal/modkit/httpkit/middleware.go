package httpkit

import (
	"net/http"
	"time"

	"resolveit/internal/platform/config"
	"resolveit/internal/platform/net/middleware"

	"github.com/klauspost/compress/gzip"
)

// StackOptions tunes the shared middleware stacks
type StackOptions struct {
	CORS      middleware.CORSOptions
	RateLimit middleware.RateLimitOptions
	Timeout   time.Duration
	Slow      time.Duration
}

// StackFromConf reads CORE_API_* knobs; the rate limit defaults to 100 requests per 15 minutes
func StackFromConf(cfg config.Conf) StackOptions {
	return StackOptions{
		CORS: middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
			MaxAge:         300,
		},
		RateLimit: middleware.RateLimitOptions{
			Limit:  cfg.MayInt("RATE_LIMIT", 100),
			Window: cfg.MayDuration("RATE_WINDOW", 15*time.Minute),
		},
		Timeout: cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:    cfg.MayDuration("SLOW_REQUEST", time.Second),
	}
}

// CommonStack is applied to every API route, streaming ones included
func CommonStack(opt StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: opt.Slow}),
		middleware.CORS(opt.CORS),
		middleware.SecureHeaders(),
		middleware.Heartbeat("/health"),
	}
}

// RESTStack adds the request scoped guards that would break long lived connections
func RESTStack(opt StackOptions) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{
		middleware.NoCache(),
		middleware.RateLimit(opt.RateLimit),
		middleware.Compress(gzip.BestSpeed),
	}
	if opt.Timeout > 0 {
		mws = append(mws, middleware.Timeout(opt.Timeout))
	}
	return mws
}

// Auth wires the auth middleware; a nil port is a passthrough
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p)
}
