package cors

import (
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/policyware/cors/cfgerrors"
	"github.com/policyware/cors/internal/headers"
	"github.com/policyware/cors/internal/methods"
	"github.com/policyware/cors/internal/util"
)

// An OriginMatcher is a pluggable origin-matching strategy.
// A policy whose matcher reports true for a given origin allows that origin
// regardless of the policy's configured origin set.
//
// Implementations must be safe for concurrent use by multiple goroutines
// and are expected to be pure functions of their argument: the engine may
// call Matches any number of times for a given request.
//
// For ready-made implementations, see package
// [github.com/policyware/cors/matchers].
type OriginMatcher interface {
	// Matches reports whether origin, in its ASCII serialized form
	// (e.g. "https://example.com"), is allowed.
	Matches(origin string) bool
}

// An OriginMatcherFunc adapts an ordinary function to the
// [OriginMatcher] interface.
type OriginMatcherFunc func(origin string) bool

// Matches calls f(origin).
func (f OriginMatcherFunc) Matches(origin string) bool { return f(origin) }

// A PolicyConfig describes a CORS policy to [NewPolicy].
// The mechanics of this type's various fields are explained below.
//
// # Origins
//
// Origins configures a policy to allow access from any of the specified
// [Web origins]. Matching is case-sensitive and exact: no pattern expansion
// of any kind is performed on the elements of this field.
//
//	Origins: []string{
//	  "https://example.com",
//	  "https://example.com:8443",
//	},
//
// A single asterisk denotes all origins:
//
//	Origins: []string{"*"},
//
// Note that, even when all origins are allowed, the engine never emits a
// literal "*" in the Access-Control-Allow-Origin header; instead, it echoes
// the request's own origin. Credentialed responses must never name the
// wildcard, and echoing unconditionally keeps the two cases uniform.
//
// # OriginMatcher
//
// OriginMatcher optionally augments Origins with a custom origin-matching
// strategy. When the matcher reports true for the request's origin, that
// origin is allowed even if absent from Origins. Because the allowed-origin
// value then depends on the request, any policy that carries a matcher
// instructs caches to vary by the Origin header.
//
// # Methods
//
// Methods configures the value of the Access-Control-Allow-Methods header
// emitted in responses to preflight requests. Method names are
// case-sensitive; the usual uppercase convention is the caller's
// responsibility. A single asterisk is permitted and emitted verbatim when
// credentialed access is disabled:
//
//	Methods: []string{"*"},
//
// The CORS protocol forbids the use of some method names;
// accordingly, specifying [forbidden method names] is prohibited.
//
// # RequestHeaders
//
// RequestHeaders configures the value of the Access-Control-Allow-Headers
// header emitted in responses to preflight requests. Header names are
// case-insensitive; they are byte-lowercased, the way Fetch-compliant
// browsers serialize them in the Access-Control-Request-Headers header.
// A single asterisk is permitted and emitted verbatim when credentialed
// access is disabled.
//
// # ExposeHeaders
//
// ExposeHeaders configures the value of the Access-Control-Expose-Headers
// header emitted in responses to non-preflight requests, in the specified
// order.
//
// # Credentialed
//
// Credentialed, when set, configures a policy to allow [credentialed access]
// (e.g. with [cookies]) in addition to anonymous access.
// Because the CORS protocol ignores wildcard values in credentialed
// responses, a credentialed policy reflects the request's
// Access-Control-Request-Method and Access-Control-Request-Headers values
// rather than emitting a literal "*".
//
// # MaxAgeInSeconds
//
// MaxAgeInSeconds configures a policy to instruct browsers to cache
// preflight responses for a duration no longer than the specified number of
// seconds.
//
// The zero value omits the Access-Control-Max-Age header altogether,
// in which case browsers apply a [default max-age value] of five seconds.
// To instruct browsers to eschew caching of preflight responses,
// specify a value of -1. No other negative value is permitted.
// Because modern browsers [cap the max-age value], this field is subject to
// an upper bound: specifying a value larger than 86400 is prohibited.
//
// [Web origins]: https://developer.mozilla.org/en-US/docs/Glossary/Origin
// [cap the max-age value]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds
// [cookies]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Cookies
// [credentialed access]: https://fetch.spec.whatwg.org/#concept-request-credentials-mode
// [default max-age value]: https://fetch.spec.whatwg.org/#http-access-control-max-age
// [forbidden method names]: https://fetch.spec.whatwg.org/#forbidden-method
type PolicyConfig struct {
	// Precludes comparability, unkeyed struct literals, and conversion to and
	// from third-party types.
	_ [0]func()

	Origins         []string
	OriginMatcher   OriginMatcher
	Methods         []string
	RequestHeaders  []string
	ExposeHeaders   []string
	Credentialed    bool
	MaxAgeInSeconds int
}

// A Policy is an immutable set of CORS matching rules,
// built from a [PolicyConfig] by [NewPolicy].
//
// A Policy must not be copied after first use.
//
// Policies are safe for concurrent use by multiple goroutines:
// a single Policy instance may be evaluated by any number of in-flight
// requests.
type Policy struct {
	origins      util.Set // may contain the wildcard as a member
	matcher      OriginMatcher
	methods      util.Set
	reqHeaders   util.Set
	expHeaders   util.Set
	credentialed bool
	maxAge       int // in seconds; 0 omits the header; -1 disables caching
	varyByOrigin bool

	// derived holds the policy's memoized joined header strings,
	// computed on first evaluation; see Policy.derive.
	derived atomic.Pointer[derivedStrings]
}

// derivedStrings is the comma-joined form of a policy's list-valued fields.
// A nil *derivedStrings marks "not yet computed"; a non-nil one is never
// mutated after publication.
type derivedStrings struct {
	methods    string
	reqHeaders string
	expHeaders string
	maxAge     string
}

const (
	// Current upper bounds:
	//  - Firefox: 86400 (24h)
	//  - Chromium: 7200 (2h)
	//  - WebKit/Safari: 600 (10m)
	//
	// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds.
	maxAgeUpperBound = 86400
	// sentinel value for disabling preflight caching
	maxAgeDisableCaching = -1
)

// NewPolicy builds a [Policy] that behaves in accordance with cfg.
// If cfg is invalid, it returns a nil *Policy and some non-nil error.
//
// Mutating the fields of cfg after NewPolicy has returned does not alter the
// resulting policy's behavior.
//
// If you need to programmatically handle the configuration errors
// constitutive of the resulting error, rely on package
// [github.com/policyware/cors/cfgerrors].
func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	p := Policy{
		matcher:      cfg.OriginMatcher,
		credentialed: cfg.Credentialed,
		maxAge:       cfg.MaxAgeInSeconds,
	}

	// Accumulate errors in a slice so as to call errors.Join at most once.
	var errs []error
	errs = p.validateOrigins(errs, cfg.Origins)
	errs = p.validateMethods(errs, cfg.Methods)
	errs = p.validateRequestHeaders(errs, cfg.RequestHeaders)
	errs = p.validateExposeHeaders(errs, cfg.ExposeHeaders)
	errs = p.validateMaxAge(errs, cfg.MaxAgeInSeconds)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// The allowed-origin value echoed in responses depends on the request
	// whenever more than one origin may match, a custom matcher is in play,
	// or the wildcard is combined with credentialed access.
	p.varyByOrigin = p.origins.Size() > 1 ||
		p.matcher != nil ||
		p.credentialed && p.origins.Contains(headers.ValueWildcard)
	return &p, nil
}

func (p *Policy) validateOrigins(errs []error, origins []string) []error {
	for _, origin := range origins {
		if origin == headers.ValueWildcard {
			p.origins.Add(origin)
			continue
		}
		if !isPlausibleOrigin(origin) {
			err := &cfgerrors.UnacceptableOriginError{
				Value:  origin,
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		p.origins.Add(origin)
	}
	return errs
}

// isPlausibleOrigin performs just enough validation to catch values that
// cannot possibly occur in an Origin header: matching against the origin set
// is exact, so a configured origin containing whitespace, a comma, or a
// control character could never match anything and necessarily indicates a
// configuration mistake.
func isPlausibleOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	for i := range len(origin) {
		switch c := origin[i]; {
		case c <= ' ', c == ',', c == 0x7f:
			return false
		}
	}
	return true
}

func (p *Policy) validateMethods(errs []error, names []string) []error {
	for _, name := range names {
		if name == headers.ValueWildcard {
			p.methods.Add(name)
			continue
		}
		if !methods.IsValid(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		if methods.IsForbidden(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "forbidden",
			}
			errs = append(errs, err)
			continue
		}
		p.methods.Add(name)
	}
	return errs
}

func (p *Policy) validateRequestHeaders(errs []error, names []string) []error {
	for _, name := range names {
		if name == headers.ValueWildcard {
			p.reqHeaders.Add(name)
			continue
		}
		if !headers.IsValid(name) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value: name,
				Type:  "request",
			}
			errs = append(errs, err)
			continue
		}
		// Fetch-compliant browsers byte-lowercase header names before
		// writing them to the Access-Control-Request-Headers header; see
		// https://fetch.spec.whatwg.org/#cors-unsafe-request-header-names,
		// step 6.
		p.reqHeaders.Add(util.ByteLowercase(name))
	}
	return errs
}

func (p *Policy) validateExposeHeaders(errs []error, names []string) []error {
	for _, name := range names {
		if !headers.IsValid(name) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value: name,
				Type:  "expose",
			}
			errs = append(errs, err)
			continue
		}
		p.expHeaders.Add(util.ByteLowercase(name))
	}
	return errs
}

func (p *Policy) validateMaxAge(errs []error, delta int) []error {
	if delta < maxAgeDisableCaching || maxAgeUpperBound < delta {
		err := &cfgerrors.MaxAgeOutOfBoundsError{
			Value:   delta,
			Max:     maxAgeUpperBound,
			Disable: maxAgeDisableCaching,
		}
		return append(errs, err)
	}
	return errs
}

// allowsOrigin reports whether the request origin is allowed by p.
// The caller is responsible for handling requests that carry no
// Origin header; those never reach this method.
func (p *Policy) allowsOrigin(origin string) bool {
	if p.origins.Contains(headers.ValueWildcard) {
		return true
	}
	if p.matcher != nil && p.matcher.Matches(origin) {
		return true
	}
	return p.origins.Contains(origin)
}

// derive returns p's joined header strings, computing and memoizing them on
// first use. Concurrent first uses may race, but harmlessly so: the inputs
// are frozen after construction, so racing writers store interchangeable
// values and the cache converges. After publication, the strings are never
// recomputed.
func (p *Policy) derive() *derivedStrings {
	if d := p.derived.Load(); d != nil {
		return d
	}
	d := &derivedStrings{
		methods:    headers.JoinList(p.methods.ToSlice()),
		reqHeaders: headers.JoinList(p.reqHeaders.ToSlice()),
		expHeaders: headers.JoinList(p.expHeaders.ToSlice()),
	}
	switch {
	case p.maxAge == maxAgeDisableCaching:
		d.maxAge = "0"
	case p.maxAge > 0:
		d.maxAge = strconv.Itoa(p.maxAge)
	}
	p.derived.Store(d)
	return d
}
