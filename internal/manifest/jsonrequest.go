// Package manifest fetches and caches Mojang's top-level version manifest
// and provides the shared JSON-request helper used throughout the core.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// JSONRequestError is raised when a JSON endpoint returns a body that
// cannot be parsed and the caller did not opt into IgnoreError.
type JSONRequestError struct {
	URL    string
	Method string
	Status int
	Body   []byte
}

func (e *JSONRequestError) Error() string {
	return fmt.Sprintf("invalid_response_not_json: %s %s returned status %d with unparsable body", e.Method, e.URL, e.Status)
}

func (e *JSONRequestError) Code() string { return "invalid_response_not_json" }

// SharedClient is the retryable HTTP client behind JSONRequest, and so behind
// the Manifest Client, the JVM manifest fetches, and the Authentication Core,
// generalizing the teacher's per-package bespoke *http.Client instances. The
// Download Engine builds its own client with automatic retries disabled.
var SharedClient = newSharedClient()

func newSharedClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.Logger = nil
	return c
}

// RequestOptions configures a JSONRequest call.
type RequestOptions struct {
	Body        io.Reader
	Headers     map[string]string
	IgnoreError bool
}

// JSONRequest performs an HTTP request and decodes a JSON response. If the
// body fails to parse as JSON and IgnoreError is not set, it returns a
// *JSONRequestError carrying the url/method/status/body, grounded in the
// source's json_request helper.
func JSONRequest(ctx context.Context, url, method string, opts RequestOptions, out any) (status int, err error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, opts.Body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := SharedClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if jsonErr := json.Unmarshal(data, out); jsonErr != nil {
		if opts.IgnoreError {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, &JSONRequestError{URL: url, Method: method, Status: resp.StatusCode, Body: data}
	}

	return resp.StatusCode, nil
}

// JSONGet is JSONRequest specialized for a plain GET.
func JSONGet(ctx context.Context, url string, out any) (int, error) {
	return JSONRequest(ctx, url, http.MethodGet, RequestOptions{}, out)
}
