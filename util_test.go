package cors_test

import (
	"net/http"
	"net/http/httptest"
)

const (
	// common request headers
	headerOrigin = "Origin"

	// preflight-only request headers
	headerACRM = "Access-Control-Request-Method"
	headerACRH = "Access-Control-Request-Headers"

	// common response headers
	headerACAO = "Access-Control-Allow-Origin"
	headerACAC = "Access-Control-Allow-Credentials"

	// preflight-only response headers
	headerACAM = "Access-Control-Allow-Methods"
	headerACAH = "Access-Control-Allow-Headers"
	headerACMA = "Access-Control-Max-Age"

	// actual-only response headers
	headerACEH = "Access-Control-Expose-Headers"

	headerVary = "Vary"
)

var allCORSResponseHeaders = []string{
	headerACAO,
	headerACAC,
	headerACAM,
	headerACAH,
	headerACMA,
	headerACEH,
}

// Headers represent a set of HTTP-header name-value pairs
// in which there are no duplicate names.
type Headers = map[string]string

func newRequest(method string, headers Headers) *http.Request {
	const dummyEndpoint = "https://example.com/whatever"
	req := httptest.NewRequest(method, dummyEndpoint, nil)
	for name, value := range headers {
		req.Header.Add(name, value)
	}
	return req
}
