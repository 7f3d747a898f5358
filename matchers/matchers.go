// Package matchers provides ready-made origin-matching strategies for
// package [github.com/policyware/cors].
//
// The core package matches origins by exact, case-sensitive string
// comparison. When a policy needs to encompass families of origins rather
// than enumerable ones, plug one of this package's matchers into
// [github.com/policyware/cors.PolicyConfig.OriginMatcher].
package matchers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/policyware/cors"
	"github.com/policyware/cors/cfgerrors"
	"golang.org/x/net/publicsuffix"
)

// Patterns builds an [cors.OriginMatcher] from the specified origin
// patterns. In addition to exact origins, two (combinable) wildcard forms
// are supported.
//
// A leading asterisk followed by a period in the host denotes one or more
// period-separated arbitrary DNS labels:
//
//	https://*.example.com
//
// encompasses https://foo.example.com and https://bar.foo.example.com,
// but not https://example.com itself.
//
// An asterisk in place of a port denotes an arbitrary (possibly implicit)
// port:
//
//	http://localhost:*
//
// encompasses http://localhost, http://localhost:8080, and so on.
//
// Origins must be specified in their ASCII serialized form, with default
// ports (80 for http, 443 for https) elided. No other forms of origin
// patterns are supported; in particular, hosts that are IPv6 addresses are
// not supported here (exact IPv6 origins can still be allowed via
// [github.com/policyware/cors.PolicyConfig.Origins]).
//
// Allowing arbitrary subdomains of a base domain that happens to be a
// [public suffix] is dangerous; as such, doing so is prohibited:
//
//	https://*.example.com // permitted: example.com is not a public suffix
//	https://*.github.io   // prohibited: github.io is a public suffix
//
// If cfg is invalid, Patterns returns a nil matcher and some non-nil error;
// package [github.com/policyware/cors/cfgerrors] allows programmatic
// handling of the errors constitutive of the result.
//
// [public suffix]: https://publicsuffix.org/
func Patterns(patterns ...string) (cors.OriginMatcher, error) {
	var (
		ps   = make(multiPattern, 0, len(patterns))
		errs []error
	)
	for _, raw := range patterns {
		p, err := parsePattern(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if p.anySubs && hostIsEffectiveTLD(p.host) {
			err := &cfgerrors.UnacceptableOriginError{
				Value:  raw,
				Reason: "psl",
			}
			errs = append(errs, err)
			continue
		}
		ps = append(ps, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ps, nil
}

type pattern struct {
	scheme  string
	host    string // base host; excludes the "*." prefix of subdomain patterns
	anySubs bool   // host stands for arbitrary subdomains of itself
	port    int    // 0 marks the absence of an explicit port
	anyPort bool   // arbitrary (possibly implicit) port
}

// multiPattern matches an origin iff at least one of its patterns does.
type multiPattern []pattern

func (mp multiPattern) Matches(origin string) bool {
	scheme, host, port, ok := splitOrigin(origin)
	if !ok {
		return false
	}
	for _, p := range mp {
		if p.matches(scheme, host, port) {
			return true
		}
	}
	return false
}

func (p *pattern) matches(scheme, host string, port int) bool {
	if scheme != p.scheme {
		return false
	}
	if !p.anyPort && port != p.port {
		return false
	}
	if p.anySubs {
		return strings.HasSuffix(host, p.host) &&
			len(host) > len(p.host) &&
			host[len(host)-len(p.host)-1] == '.'
	}
	return host == p.host
}

func parsePattern(raw string) (pattern, error) {
	var p pattern
	invalid := &cfgerrors.UnacceptableOriginError{Value: raw, Reason: "invalid"}
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || !isValidScheme(scheme) {
		return p, invalid
	}
	p.scheme = scheme
	host := rest
	if before, after, found := cutLast(rest, ':'); found {
		host = before
		switch after {
		case "*":
			p.anyPort = true
		default:
			port, ok := parsePort(after)
			if !ok || isDefaultPortForScheme(scheme, port) {
				return p, invalid
			}
			p.port = port
		}
	}
	if h, found := strings.CutPrefix(host, "*."); found {
		p.anySubs = true
		host = h
	}
	if !isValidHost(host) {
		return p, invalid
	}
	p.host = host
	return p, nil
}

// splitOrigin leniently decomposes an ASCII-serialized origin;
// it performs just enough validation for pattern.matches to know what to do
// with the result.
func splitOrigin(origin string) (scheme, host string, port int, ok bool) {
	scheme, rest, found := strings.Cut(origin, "://")
	if !found {
		return "", "", 0, false
	}
	host = rest
	if before, after, found := cutLast(rest, ':'); found {
		p, valid := parsePort(after)
		if !valid {
			return "", "", 0, false
		}
		host = before
		port = p
	}
	return scheme, host, port, true
}

func isValidScheme(scheme string) bool {
	if scheme == "" || !isLowerAlpha(scheme[0]) {
		return false
	}
	for i := 1; i < len(scheme); i++ {
		if !isSubsequentSchemeByte(scheme[i]) {
			return false
		}
	}
	return true
}

func isLowerAlpha(c byte) bool {
	return 'a' <= c && c <= 'z'
}

func isSubsequentSchemeByte(c byte) bool {
	return isLowerAlpha(c) || isDigit(c) || c == '+' || c == '-' || c == '.'
}

func isValidHost(host string) bool {
	if host == "" || host[0] == '.' || host[len(host)-1] == '.' {
		return false
	}
	var lastWasSep bool
	for i := range len(host) {
		c := host[i]
		if c == '.' {
			if lastWasSep { // empty label
				return false
			}
			lastWasSep = true
			continue
		}
		lastWasSep = false
		if !isLowerAlpha(c) && !isDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func parsePort(str string) (int, bool) {
	const maxPort = 1<<16 - 1
	if str == "" || len(str) > len("65535") || str[0] == '0' {
		return 0, false
	}
	port, err := strconv.Atoi(str)
	if err != nil || port > maxPort {
		return 0, false
	}
	return port, true
}

func isDefaultPortForScheme(scheme string, port int) bool {
	return scheme == "http" && port == 80 ||
		scheme == "https" && port == 443
}

// cutLast slices s around the last occurrence of sep.
func cutLast(s string, sep byte) (before, after string, found bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func hostIsEffectiveTLD(host string) bool {
	etld, _ := publicsuffix.PublicSuffix(host)
	return host == etld
}
