package httpkit

import (
	"net/http"

	perr "resolveit/internal/platform/errors"
	pnet "resolveit/internal/platform/net"
)

// Principal returns the authenticated caller set by the auth middleware
func Principal(r *http.Request) (string, error) {
	who := pnet.Principal(r.Context())
	if who == "" {
		return "", perr.Unauthorizedf("missing credentials")
	}
	return who, nil
}

// Actor names the caller for logs; "anonymous" when auth is disabled
func Actor(r *http.Request) string {
	if who := pnet.Principal(r.Context()); who != "" {
		return who
	}
	return "anonymous"
}
