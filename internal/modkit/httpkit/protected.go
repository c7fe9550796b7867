package httpkit

import "resolveit/internal/platform/net/middleware"

// Protected groups routes under the auth port; with a nil port the routes stay open
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
