// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package httpmock serves canned HTTP responses for clients under test.
package httpmock

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// Response is a canned response. When Err is set the round trip fails
// with it instead.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
	Err        error
}

// Transport is an http.RoundTripper answering from registered responses.
// Unknown URLs get a 404.
type Transport struct {
	mu        sync.Mutex
	responses map[string][]Response
	requests  []*http.Request
}

// NewTransport creates an empty Transport.
func NewTransport() *Transport {
	return &Transport{
		responses: make(map[string][]Response),
	}
}

// AddResponse registers a response for url. Responses registered for the
// same url are returned in order, the last one is repeated.
func (t *Transport) AddResponse(url string, response Response) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[url] = append(t.responses[url], response)
}

// Requests returns the requests seen so far.
func (t *Transport) Requests() []*http.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*http.Request(nil), t.requests...)
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests = append(t.requests, req)

	url := req.URL.String()
	responses := t.responses[url]
	if len(responses) == 0 {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("Not Found")),
			Request:    req,
		}, nil
	}

	response := responses[0]
	if len(responses) > 1 {
		t.responses[url] = responses[1:]
	}
	if response.Err != nil {
		return nil, response.Err
	}

	headers := make(http.Header)
	for key, value := range response.Headers {
		headers.Set(key, value)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Header:     headers,
		Body:       io.NopCloser(strings.NewReader(response.Body)),
		Request:    req,
	}, nil
}

// NewClient creates an *http.Client backed by a new Transport.
func NewClient() (*http.Client, *Transport) {
	transport := NewTransport()
	return &http.Client{Transport: transport}, transport
}
