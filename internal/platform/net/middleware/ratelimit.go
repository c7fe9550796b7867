package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	perr "resolveit/internal/platform/errors"
	phttp "resolveit/internal/platform/net/http"

	"golang.org/x/time/rate"
)

// RateLimitOptions allows Limit requests per Window for each client IP
type RateLimitOptions struct {
	Limit  int
	Window time.Duration
	// Idle visitors are forgotten after this long; defaults to Window
	Idle time.Duration
	now  func() time.Time
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

type limiter struct {
	opt      RateLimitOptions
	every    rate.Limit
	mu       sync.Mutex
	visitors map[string]*visitor
	swept    time.Time
}

// RateLimit is a per IP token bucket: the bucket holds Limit tokens and refills over Window.
// Rejected requests get 429 with Retry-After. Limit <= 0 disables it
func RateLimit(opt RateLimitOptions) func(http.Handler) http.Handler {
	if opt.Limit <= 0 || opt.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opt.Idle <= 0 {
		opt.Idle = opt.Window
	}
	if opt.now == nil {
		opt.now = time.Now
	}
	l := &limiter{
		opt:      opt,
		every:    rate.Every(opt.Window / time.Duration(opt.Limit)),
		visitors: make(map[string]*visitor),
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := l.opt.now()
			res := l.reserve(clientIP(r), now)
			if !res.OK() || res.DelayFrom(now) > 0 {
				wait := res.DelayFrom(now)
				res.CancelAt(now)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				phttp.RespondError(w, r, perr.TooManyRequestsf("too many requests from this IP, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *limiter) reserve(ip string, now time.Time) *rate.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.swept) > l.opt.Idle {
		for k, v := range l.visitors {
			if now.Sub(v.seen) > l.opt.Idle {
				delete(l.visitors, k)
			}
		}
		l.swept = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.every, l.opt.Limit)}
		l.visitors[ip] = v
	}
	v.seen = now
	return v.lim.ReserveN(now, 1)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
