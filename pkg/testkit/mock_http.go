package testkit

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// MockTransport is an http.RoundTripper that answers pkg/http calls from the
// "httprequest" steps of a scenario, typically the seed image download.
//
//	mt := testkit.NewMockTransport(scenario)
//	http.DefaultClient.Transport = mt
//	defer http.ResetTransport()
type MockTransport struct {
	mu     sync.Mutex
	routes []*mockRoute
	strict bool
	calls  []string
}

type mockRoute struct {
	step MockStep
	hits int
}

// NewMockTransport keeps the "httprequest" steps of s that have isMock set.
func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{strict: s.IsMockRequired}
	for _, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" && step.IsMock {
			mt.routes = append(mt.routes, &mockRoute{step: step})
		}
	}
	return mt
}

// RoundTrip answers req from the first route whose matchUrl prefixes the
// request URL.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	url := req.URL.String()
	mt.calls = append(mt.calls, req.Method+" "+url)

	for _, route := range mt.routes {
		if !strings.HasPrefix(url, route.step.MatchURL) {
			continue
		}
		route.hits++
		return route.respond(req)
	}

	if mt.strict {
		return nil, fmt.Errorf("testkit: no mock step matches %s %s", req.Method, url)
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Header:     make(http.Header),
		Body:       http.NoBody,
		Request:    req,
	}, nil
}

// Calls lists every request seen, as "METHOD URL", in order.
func (mt *MockTransport) Calls() []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]string(nil), mt.calls...)
}

// AssertAllCalled returns one error per route that was never hit.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, route := range mt.routes {
		if route.hits == 0 {
			errs = append(errs, fmt.Errorf("testkit: mock for %q was never called", route.step.MatchURL))
		}
	}
	return errs
}

func (r *mockRoute) respond(req *http.Request) (*http.Response, error) {
	rd := r.step.ReturnData
	if rd.Fail != "" {
		return nil, errors.New(rd.Fail)
	}

	body, err := decodeMockBody(rd.Body)
	if err != nil {
		return nil, err
	}

	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	ct := rd.ContentType
	if ct == "" {
		ct = "application/json"
	}

	header := make(http.Header)
	header.Set("Content-Type", ct)
	header.Set("Content-Length", strconv.Itoa(len(body)))

	return &http.Response{
		StatusCode:    code,
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

// decodeMockBody accepts padded or unpadded base64.
func decodeMockBody(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("testkit: mock body is not base64: %w", err)
	}
	return b, nil
}
