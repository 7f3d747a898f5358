package cors_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/policyware/cors"
)

func newSpyHandler(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	called := new(bool)
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusTeapot)
	})
	return h, called
}

func TestMiddleware(t *testing.T) {
	p, err := cors.NewPolicy(cors.PolicyConfig{
		Origins:         []string{"https://example.com"},
		Methods:         []string{"PUT"},
		MaxAgeInSeconds: 30,
	})
	if err != nil {
		t.Fatalf("NewPolicy: got error %v; want nil", err)
	}
	cases := []struct {
		desc       string
		reqMethod  string
		reqHeaders Headers
		wantStatus int
		// whether the wrapped handler should observe the request
		wantInner   bool
		respHeaders Headers
	}{
		{
			desc:       "non-CORS GET reaches the handler",
			reqMethod:  "GET",
			wantStatus: http.StatusTeapot,
			wantInner:  true,
		}, {
			desc:      "actual GET from allowed origin reaches the handler with CORS headers",
			reqMethod: "GET",
			reqHeaders: Headers{
				headerOrigin: "https://example.com",
			},
			wantStatus: http.StatusTeapot,
			wantInner:  true,
			respHeaders: Headers{
				headerACAO: "https://example.com",
			},
		}, {
			desc:      "successful preflight terminates at the middleware",
			reqMethod: "OPTIONS",
			reqHeaders: Headers{
				headerOrigin: "https://example.com",
				headerACRM:   "PUT",
			},
			wantStatus: http.StatusNoContent,
			respHeaders: Headers{
				headerACAO: "https://example.com",
				headerACAM: "PUT",
				headerACMA: "30",
			},
		}, {
			desc:      "preflight from disallowed origin terminates without CORS headers",
			reqMethod: "OPTIONS",
			reqHeaders: Headers{
				headerOrigin: "https://attacker.example",
				headerACRM:   "PUT",
			},
			wantStatus: http.StatusNoContent,
		}, {
			desc:      "actual GET from disallowed origin reaches the handler without CORS headers",
			reqMethod: "GET",
			reqHeaders: Headers{
				headerOrigin: "https://attacker.example",
			},
			wantStatus: http.StatusTeapot,
			wantInner:  true,
		},
	}
	mw := cors.NewMiddleware(p)
	for _, tc := range cases {
		f := func(t *testing.T) {
			inner, called := newSpyHandler(t)
			rec := httptest.NewRecorder()
			mw.Wrap(inner).ServeHTTP(rec, newRequest(tc.reqMethod, tc.reqHeaders))
			if rec.Code != tc.wantStatus {
				t.Errorf("status: got %d; want %d", rec.Code, tc.wantStatus)
			}
			if *called != tc.wantInner {
				t.Errorf("handler called: got %t; want %t", *called, tc.wantInner)
			}
			assertCORSHeaders(t, rec.Header(), tc.respHeaders)
		}
		t.Run(tc.desc, f)
	}
}

func TestPassthroughMiddleware(t *testing.T) {
	mw := cors.NewMiddleware(nil)
	inner, called := newSpyHandler(t)
	rec := httptest.NewRecorder()
	req := newRequest("OPTIONS", Headers{
		headerOrigin: "https://example.com",
		headerACRM:   "PUT",
	})
	mw.Wrap(inner).ServeHTTP(rec, req)
	if !*called {
		t.Error("handler called: got false; want true")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status: got %d; want %d", rec.Code, http.StatusTeapot)
	}
	assertCORSHeaders(t, rec.Header(), nil)
}

func TestNamedMiddlewareFollowsRegistryUpdates(t *testing.T) {
	var reg cors.Registry
	mw := cors.NewNamedMiddleware(&reg, "api")
	inner, _ := newSpyHandler(t)
	wrapped := mw.Wrap(inner)
	req := func() *http.Request {
		return newRequest("GET", Headers{headerOrigin: "https://example.com"})
	}

	// no policy registered yet: passthrough
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req())
	assertCORSHeaders(t, rec.Header(), nil)

	p, err := cors.NewPolicy(cors.PolicyConfig{Origins: []string{"https://example.com"}})
	if err != nil {
		t.Fatalf("NewPolicy: got error %v; want nil", err)
	}
	reg.Register("api", p)
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req())
	assertCORSHeaders(t, rec.Header(), Headers{headerACAO: "https://example.com"})

	reg.Register("api", nil) // deregister
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req())
	assertCORSHeaders(t, rec.Header(), nil)
}
