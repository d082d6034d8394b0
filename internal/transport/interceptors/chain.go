// Package interceptors holds the stages every outgoing backend request passes through: header
// decoration, the client-side route guard, telemetry and session-expiry handling.
package interceptors

import "net/http"

// Handler sends a request and returns its response.
type Handler func(*http.Request) (*http.Response, error)

// Interceptor wraps a Handler. It may change the request (on a clone), inspect the response,
// or short-circuit by returning an error without calling next.
type Interceptor func(req *http.Request, next Handler) (*http.Response, error)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Chain returns a RoundTripper running interceptors in order around rt. The first interceptor
// sees the request first and the response last. rt nil means http.DefaultTransport.
func Chain(rt http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	h := Handler(rt.RoundTrip)
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, next := interceptors[i], h
		if ic == nil {
			continue
		}
		h = func(req *http.Request) (*http.Response, error) { return ic(req, next) }
	}
	return RoundTripperFunc(h)
}
