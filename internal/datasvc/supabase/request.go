// Keepskip - Trend Feed Voting and Preference Weighting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepskip

package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/keepskip/internal/datasvc"
	"github.com/tomtom215/keepskip/internal/metrics"
)

// maxErrorBody caps how much of an error response is kept in ServiceError.
const maxErrorBody = 512

// requestConfig holds configuration for building PostgREST requests
type requestConfig struct {
	op     string // contract operation, used in errors and metrics
	method string
	path   string // relative to /rest/v1
	query  url.Values
	body   interface{}
	prefer string // Prefer header, e.g. "return=minimal"
}

// postgrestError is the error body PostgREST returns on failure.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// doRequest executes a PostgREST request and decodes a 2xx JSON response
// into result when result is non-nil. Failures are *datasvc.ServiceError.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRemoteCall(backendName, cfg.op, time.Since(start), err)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &callerSideError{err: &datasvc.ServiceError{Op: cfg.op, Message: "rate limiter", Err: err}}
		}
	}

	req, err := c.newRequest(ctx, cfg)
	if err != nil {
		return &datasvc.ServiceError{Op: cfg.op, Message: "build request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &datasvc.ServiceError{Op: cfg.op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(cfg.op, resp)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &datasvc.ServiceError{
			Op:         cfg.op,
			StatusCode: resp.StatusCode,
			Message:    "decode response",
			Err:        err,
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cfg requestConfig) (*http.Request, error) {
	reqURL := fmt.Sprintf("%s/rest/v1%s", c.baseURL, cfg.path)
	if len(cfg.query) > 0 {
		reqURL += "?" + encodeQuery(cfg.query)
	}

	var body io.Reader = http.NoBody
	if cfg.body != nil {
		payload, err := json.Marshal(cfg.body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, reqURL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if cfg.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cfg.prefer != "" {
		req.Header.Set("Prefer", cfg.prefer)
	}
	if c.schema != "" {
		if cfg.method == http.MethodGet {
			req.Header.Set("Accept-Profile", c.schema)
		} else {
			req.Header.Set("Content-Profile", c.schema)
		}
	}
	return req, nil
}

// encodeQuery keeps PostgREST operator syntax (eq., in.(...)) readable while
// escaping everything else.
func encodeQuery(q url.Values) string {
	encoded := q.Encode()
	r := strings.NewReplacer("%28", "(", "%29", ")", "%2C", ",")
	return r.Replace(encoded)
}

// responseError converts a non-2xx response into a ServiceError.
func responseError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(raw))
	var pgErr postgrestError
	if len(raw) > 0 && json.Unmarshal(raw, &pgErr) == nil && pgErr.Message != "" {
		msg = pgErr.Message
		if pgErr.Code != "" {
			msg = pgErr.Code + ": " + msg
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &datasvc.ServiceError{Op: op, StatusCode: resp.StatusCode, Message: msg}
}
