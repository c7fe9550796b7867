package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	perr "resolveit/internal/platform/errors"
	pnet "resolveit/internal/platform/net"
	phttp "resolveit/internal/platform/net/http"
)

// AuthPort resolves the caller of a request. Session issuance lives outside this service
type AuthPort interface {
	Parse(r *http.Request) (principal string, err error)
}

// Auth rejects requests the port cannot resolve; a nil port lets everything through
func Auth(p AuthPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, err := p.Parse(r)
			if err != nil {
				phttp.RespondError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithPrincipal(r.Context(), who)))
		})
	}
}

// StaticTokens accepts a fixed set of bearer tokens. Browsers cannot set headers
// on websocket upgrades, so a token query parameter is accepted as well
type StaticTokens struct {
	tokens []string
}

// NewStaticTokens returns a nil port when tokens is empty, which disables auth
func NewStaticTokens(tokens []string) AuthPort {
	var keep []string
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			keep = append(keep, t)
		}
	}
	if len(keep) == 0 {
		return nil
	}
	return &StaticTokens{tokens: keep}
}

// Parse implements AuthPort; the principal is "token:<n>" for the matching index
func (s *StaticTokens) Parse(r *http.Request) (string, error) {
	got := ""
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", perr.Unauthorizedf("authorization must be a bearer token")
		}
		got = strings.TrimSpace(tok)
	} else {
		got = r.URL.Query().Get("token")
	}
	if got == "" {
		return "", perr.Unauthorizedf("missing credentials")
	}
	for i, t := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(got), []byte(t)) == 1 {
			return "token:" + strconv.Itoa(i), nil
		}
	}
	return "", perr.Unauthorizedf("unknown token")
}
