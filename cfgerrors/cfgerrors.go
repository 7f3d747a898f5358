/*
Package cfgerrors provides functionalities for programmatically handling
policy-configuration errors produced by package [github.com/policyware/cors].

Most users of package [github.com/policyware/cors] have no use for this
package. However, systems that let their own users configure CORS policies
(e.g. via some Web portal or some configuration file) may find it useful:
it allows those systems to report policy-configuration mistakes via custom,
human-friendly error messages, perhaps even ones written in a natural
language other than English.
*/
package cfgerrors

import (
	"fmt"
	"iter"
)

// An UnacceptableOriginError indicates an unacceptable origin or origin
// pattern. The Reason field may take one of two values:
//   - "invalid": the origin (or origin pattern) is syntactically invalid;
//   - "psl": the origin pattern encompasses arbitrary subdomains of a
//     public suffix, which is prohibited by default.
//
// For more details, see [github.com/policyware/cors.PolicyConfig.Origins] and
// [github.com/policyware/cors/matchers.Patterns].
type UnacceptableOriginError struct {
	Value  string // the unacceptable value that was specified
	Reason string // invalid | psl
}

func (err *UnacceptableOriginError) Error() string {
	if err.Reason == "psl" {
		const tmpl = "cors: for security reasons, origin patterns like %q that encompass subdomains of a public suffix are by default prohibited"
		return fmt.Sprintf(tmpl, err.Value)
	}
	const tmpl = "cors: %s origin %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An UnacceptableMethodError indicates an unacceptable method.
// The Reason field may take one of two values:
//   - "invalid": the method is invalid;
//   - "forbidden": the method is forbidden by [the Fetch standard].
//
// For more details, see [github.com/policyware/cors.PolicyConfig.Methods].
//
// [the Fetch standard]: https://fetch.spec.whatwg.org
type UnacceptableMethodError struct {
	Value  string // the unacceptable value that was specified
	Reason string // invalid | forbidden
}

func (err *UnacceptableMethodError) Error() string {
	const tmpl = "cors: %s method %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An UnacceptableHeaderNameError indicates an invalid header name.
// The Type field may take one of two values:
//   - "request": the name was specified in
//     [github.com/policyware/cors.PolicyConfig.RequestHeaders];
//   - "expose": the name was specified in
//     [github.com/policyware/cors.PolicyConfig.ExposeHeaders].
type UnacceptableHeaderNameError struct {
	Value string // the unacceptable value that was specified
	Type  string // request | expose
}

func (err *UnacceptableHeaderNameError) Error() string {
	const tmpl = "cors: invalid %s-header name %q"
	return fmt.Sprintf(tmpl, err.Type, err.Value)
}

// A MaxAgeOutOfBoundsError indicates a max-age value that's either too low
// or too high.
//
// For more details, see
// [github.com/policyware/cors.PolicyConfig.MaxAgeInSeconds].
type MaxAgeOutOfBoundsError struct {
	Value   int // the unacceptable value that was specified
	Max     int // maximum max-age value permitted by this library
	Disable int // sentinel value for disabling preflight caching
}

func (err *MaxAgeOutOfBoundsError) Error() string {
	const tmpl = "cors: out-of-bounds max-age value %d (max: %d; disable caching: %d)"
	return fmt.Sprintf(tmpl, err.Value, err.Max, err.Disable)
}

// All returns an iterator over the policy-configuration errors contained in
// err's error tree. The order is unspecified and may change from one release
// to the next. All only supports error values returned by
// [github.com/policyware/cors.NewPolicy] and
// [github.com/policyware/cors/matchers.Patterns]; it should not be called on
// any other error value.
func All(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		every(err, yield)
	}
}

func every(err error, f func(error) bool) bool {
	switch err := err.(type) {
	// Note that there's no need for any "interface { Unwrap() error }" case
	// because nowhere do we "wrap" errors; we only ever "join" them.
	case interface{ Unwrap() []error }:
		for _, err := range err.Unwrap() {
			if !every(err, f) {
				return false
			}
		}
		return true
	default:
		return f(err)
	}
}
