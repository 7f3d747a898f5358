package cors

// A Result describes the outcome of evaluating one request against one
// policy: whether the server participates in the CORS protocol for that
// request, and the exact set of response headers communicating the decision.
//
// Results are produced by [Service.Evaluate], consumed by [Service.Apply],
// and never reused across requests.
//
// The header-valued accessors come in a (value, ok) form: ok reports whether
// the corresponding header is to be emitted at all, which keeps an absent
// header distinguishable from one carrying an empty value.
type Result struct {
	allowed      bool
	preflight    bool
	origin       string
	credentialed bool
	varyByOrigin bool

	allowMethods  string
	allowHeaders  string
	exposeHeaders string
	maxAge        string
}

// Allowed reports whether the cross-origin request is permitted.
// When it returns false, [Service.Apply] writes no headers at all.
func (res *Result) Allowed() bool { return res.allowed }

// Preflight reports whether the evaluated request was classified as a
// CORS-preflight request.
func (res *Result) Preflight() bool { return res.preflight }

// AllowedOrigin returns the literal origin value to echo in the
// Access-Control-Allow-Origin header. It is never the wildcard, even for
// policies that allow all origins: credentialed responses must never name
// the wildcard, and echoing unconditionally keeps both cases uniform.
// It returns "" when the request is disallowed.
func (res *Result) AllowedOrigin() string { return res.origin }

// Credentialed reports whether the response advertises support for
// credentialed access.
func (res *Result) Credentialed() bool { return res.credentialed }

// VaryByOrigin reports whether the allowed-origin value depends on the
// request's Origin header, in which case caches must vary by that header.
func (res *Result) VaryByOrigin() bool { return res.varyByOrigin }

// AllowMethods returns the Access-Control-Allow-Methods value and whether
// that header is to be emitted. It is only ever emitted in responses to
// preflight requests.
func (res *Result) AllowMethods() (string, bool) {
	return res.allowMethods, res.allowMethods != ""
}

// AllowHeaders returns the Access-Control-Allow-Headers value and whether
// that header is to be emitted. It is only ever emitted in responses to
// preflight requests.
func (res *Result) AllowHeaders() (string, bool) {
	return res.allowHeaders, res.allowHeaders != ""
}

// ExposeHeaders returns the Access-Control-Expose-Headers value and whether
// that header is to be emitted. It is only ever emitted in responses to
// non-preflight requests.
func (res *Result) ExposeHeaders() (string, bool) {
	return res.exposeHeaders, res.exposeHeaders != ""
}

// MaxAge returns the Access-Control-Max-Age value (in whole seconds) and
// whether that header is to be emitted. It is only ever emitted in responses
// to preflight requests.
func (res *Result) MaxAge() (string, bool) {
	return res.maxAge, res.maxAge != ""
}
