package cors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/policyware/cors/internal/headers"
)

// Contract-violation errors reported by [Service.Evaluate] and
// [Service.Apply]. They indicate a programming error in the caller,
// never a runtime CORS outcome: a request whose origin is simply not
// allowed yields a nil error and a [Result] whose Allowed method
// reports false.
var (
	ErrNilRequest  = errors.New("cors: nil request")
	ErrNilPolicy   = errors.New("cors: nil policy")
	ErrNilResult   = errors.New("cors: nil result")
	ErrNilResponse = errors.New("cors: nil response")
)

// A Service evaluates CORS policies against incoming requests and applies
// the resulting header decisions to outgoing responses.
//
// A Service holds no per-request state; the zero value is ready to use and
// safe for concurrent use by multiple goroutines. Evaluation neither blocks
// nor spawns background work: it is a pure, bounded computation over
// already-available header values.
type Service struct{}

// Evaluate classifies r (preflight or not), matches it against p, and
// returns a [Result] describing exactly which CORS headers to emit.
// It returns a non-nil error only on a contract violation, i.e. when r or p
// is nil.
//
// Policy mismatch is not an error: requests that carry no Origin header, or
// whose origin p does not allow, yield a Result whose Allowed method reports
// false and which retains zero values everywhere else.
func (Service) Evaluate(r *http.Request, p *Policy) (*Result, error) {
	if r == nil {
		return nil, ErrNilRequest
	}
	if p == nil {
		return nil, ErrNilPolicy
	}
	res := Result{preflight: isPreflight(r)}
	origin, found := headers.First(r.Header, headers.Origin)
	if !found || !p.allowsOrigin(origin) {
		// r is either not a CORS request or one the policy declines;
		// see https://fetch.spec.whatwg.org/#cors-request.
		// Either way, the remaining fields retain their zero values and
		// Apply emits nothing.
		return &res, nil
	}
	res.allowed = true

	// The remainder is common to preflight and non-preflight requests: the
	// protocol distinction only affects which of these fields materialize
	// into headers at Apply time.
	d := p.derive()
	res.origin = origin
	res.credentialed = p.credentialed
	if p.credentialed {
		// Wildcard values are ignored by browsers in credentialed responses,
		// so reflect the caller's requested method and headers instead of
		// the policy's own (possibly wildcard) lists.
		if acrm, found := headers.First(r.Header, headers.ACRM); found {
			res.allowMethods = acrm
		} else {
			res.allowMethods = d.methods
		}
		if acrh, found := headers.First(r.Header, headers.ACRH); found {
			res.allowHeaders = acrh
		} else {
			res.allowHeaders = d.reqHeaders
		}
	} else {
		res.allowMethods = d.methods
		res.allowHeaders = d.reqHeaders
	}
	res.exposeHeaders = d.expHeaders
	res.maxAge = d.maxAge
	res.varyByOrigin = p.varyByOrigin
	return &res, nil
}

// isPreflight reports whether r is a CORS-preflight request: an OPTIONS
// request (method compared case-insensitively, for interoperability with
// non-compliant clients) that carries an Access-Control-Request-Method
// header. Access-Control-Request-Headers is deliberately not required;
// legacy clients omit it.
// See https://fetch.spec.whatwg.org/#cors-preflight-request.
func isPreflight(r *http.Request) bool {
	if !strings.EqualFold(r.Method, http.MethodOptions) {
		return false
	}
	_, found := r.Header[headers.ACRM]
	return found
}

// Apply writes the headers described by res onto w. It returns a non-nil
// error only on a contract violation, i.e. when res or w is nil.
//
// When res disallows the request, Apply writes no headers at all: a server
// declining to participate in the CORS protocol must not leak any of the
// access-control headers.
//
// All writes are additive with respect to unrelated headers already present
// on w (e.g. application headers set by a downstream handler); those are
// left untouched.
func (Service) Apply(res *Result, w http.ResponseWriter) error {
	if res == nil {
		return ErrNilResult
	}
	if w == nil {
		return ErrNilResponse
	}
	if !res.allowed {
		return nil
	}
	resHdrs := w.Header()
	if res.origin != "" {
		resHdrs.Set(headers.ACAO, res.origin)
	}
	if res.credentialed {
		resHdrs.Set(headers.ACAC, headers.ValueTrue)
	}
	if res.preflight {
		if v, ok := res.AllowHeaders(); ok {
			resHdrs.Set(headers.ACAH, v)
		}
		if v, ok := res.AllowMethods(); ok {
			resHdrs.Set(headers.ACAM, v)
		}
		if v, ok := res.MaxAge(); ok {
			resHdrs.Set(headers.ACMA, v)
		}
	} else if v, ok := res.ExposeHeaders(); ok {
		resHdrs.Set(headers.ACEH, v)
	}
	if res.varyByOrigin {
		// Note that we must add rather than set a Vary header here,
		// because outer middleware may have already added/set a Vary
		// header, which we wouldn't want to clobber.
		resHdrs.Add(headers.Vary, headers.Origin)
	}
	return nil
}
