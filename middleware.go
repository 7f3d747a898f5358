package cors

import "net/http"

// A Middleware applies a CORS policy to the handlers it wraps.
// Call its [*Middleware.Wrap] method to apply it to a [http.Handler].
//
// A Middleware resolves its policy anew for every request, so wrapping a
// hot-reloadable [PolicyProvider] (such as a [Registry] kept in sync by
// package [github.com/policyware/cors/policyfile]) picks up policy changes
// without a server restart.
//
// Middleware are safe for concurrent use by multiple goroutines.
type Middleware struct {
	service  Service
	provider PolicyProvider
	name     string
}

// NewMiddleware creates a middleware that applies p to every request.
// If p is nil, the resulting middleware is a mere "passthrough", i.e. one
// that simply delegates to the handler(s) it wraps.
func NewMiddleware(p *Policy) *Middleware {
	return &Middleware{provider: staticProvider{policy: p}}
}

// NewNamedMiddleware creates a middleware that, for every request, resolves
// the policy registered under name with provider. Requests for which no
// policy resolves pass through unevaluated, with the response left
// untouched.
func NewNamedMiddleware(provider PolicyProvider, name string) *Middleware {
	return &Middleware{provider: provider, name: name}
}

// staticProvider resolves every name to the same policy (possibly nil).
type staticProvider struct {
	policy *Policy
}

func (sp staticProvider) Resolve(string) *Policy { return sp.policy }

// Wrap applies the CORS middleware to the specified handler.
//
// Preflight requests terminate at the middleware with a 204 No Content
// response; they carry CORS headers only when the preflight passed the
// policy's checks, and the wrapped handler never observes them.
// All other requests proceed to the wrapped handler after the CORS headers
// (if any) have been written.
func (m *Middleware) Wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p *Policy
		if m.provider != nil {
			p = m.provider.Resolve(m.name)
		}
		if p == nil { // passthrough middleware
			h.ServeHTTP(w, r)
			return
		}
		res, err := m.service.Evaluate(r, p)
		if err != nil {
			// Unreachable: r and p are both non-nil here. Failing open
			// (i.e. writing no CORS headers) is the protocol-safe outcome
			// regardless.
			h.ServeHTTP(w, r)
			return
		}
		_ = m.service.Apply(res, w) // res and w are both non-nil
		if res.Preflight() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
