// Package transporttest provides a recording fake of transport.API for repository tests.
package transporttest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/transport"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Body   []byte // JSON-encoded request body, nil when none
}

// Fake answers requests from canned JSON keyed by "METHOD path". Unknown keys answer 204.
type Fake struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string]string
	errs      map[string]error
}

var _ transport.API = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{responses: map[string]string{}, errs: map[string]error{}}
}

// Respond makes method+path answer with body.
func (f *Fake) Respond(method, path, body string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = body
	return f
}

// Fail makes method+path fail with err.
func (f *Fake) Fail(method, path string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method+" "+path] = err
	return f
}

// Calls returns the recorded requests in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Last returns the most recent request, or the zero Call.
func (f *Fake) Last() Call {
	calls := f.Calls()
	if len(calls) == 0 {
		return Call{}
	}
	return calls[len(calls)-1]
}

func (f *Fake) do(method, path string, in, out any) (*transport.Response, error) {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = b
	}
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: body})
	resp, hasResp := f.responses[method+" "+path]
	err := f.errs[method+" "+path]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !hasResp {
		return &transport.Response{Status: http.StatusNoContent, StatusText: "No Content"}, nil
	}
	if out != nil {
		if err := json.Unmarshal([]byte(resp), out); err != nil {
			return nil, &apierror.Error{Code: apierror.CodeUnknown, Message: "The server returned an unexpected response.", Raw: resp}
		}
	}
	return &transport.Response{Data: json.RawMessage(resp), Status: http.StatusOK, StatusText: "OK"}, nil
}

func (f *Fake) Get(_ context.Context, path string, out any) (*transport.Response, error) {
	return f.do(http.MethodGet, path, nil, out)
}

func (f *Fake) Post(_ context.Context, path string, in, out any) (*transport.Response, error) {
	return f.do(http.MethodPost, path, in, out)
}

func (f *Fake) Put(_ context.Context, path string, in, out any) (*transport.Response, error) {
	return f.do(http.MethodPut, path, in, out)
}

func (f *Fake) Delete(_ context.Context, path string) (*transport.Response, error) {
	return f.do(http.MethodDelete, path, nil, nil)
}
