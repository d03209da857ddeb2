package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"medigate/utils"

	"go.uber.org/zap"
)

// SessionGateway is the sole chokepoint for one session's calls to the
// hospital backend. It attaches the bearer token, recovers from exactly one
// 401 per call by coordinating a single-flight token refresh, and tears the
// session down when the refresh itself fails.
//
// Known gaps carried over from the contract: no per-request timeout of its
// own, and an issued request cannot be aborted beyond ctx cancellation of
// the underlying HTTP call.
type SessionGateway struct {
	baseURL     string
	loginPath   string
	refreshPath string
	httpClient  *http.Client
	tokens      TokenStore
	logger      *zap.Logger

	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
	loggedOut  bool
	onEnd      []func()
}

// Options configures a SessionGateway. Tokens is required; everything else
// has a sensible default.
type Options struct {
	BaseURL     string
	LoginPath   string
	RefreshPath string
	Tokens      TokenStore
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

func New(opts Options) *SessionGateway {
	if opts.Tokens == nil {
		opts.Tokens = &MemoryTokenStore{}
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = utils.GetLogger()
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/auth/login"
	}
	if opts.RefreshPath == "" {
		opts.RefreshPath = "/auth/refresh"
	}
	return &SessionGateway{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		loginPath:   opts.LoginPath,
		refreshPath: opts.RefreshPath,
		httpClient:  opts.HTTPClient,
		tokens:      opts.Tokens,
		logger:      opts.Logger,
	}
}

// Do issues an authenticated JSON call. body (when non-nil) is marshalled as
// the request payload; out (when non-nil) receives the decoded 2xx response.
// Extra headers are merged over the defaults. A 401 on a non-auth path
// triggers the refresh protocol and one retry; a second 401 after a
// successful refresh ends the call with ErrSessionExpired rather than
// looping.
func (g *SessionGateway) Do(ctx context.Context, method, path string, body, out any, headers ...http.Header) error {
	err := g.doOnce(ctx, method, path, body, out, headers)
	if StatusOf(err) != http.StatusUnauthorized || g.isAuthPath(path) {
		return err
	}

	if rerr := g.refresh(ctx); rerr != nil {
		return rerr
	}

	err = g.doOnce(ctx, method, path, body, out, headers)
	if StatusOf(err) == http.StatusUnauthorized {
		// At most one refresh-triggered retry per original call.
		return ErrSessionExpired
	}
	return err
}

// Get is shorthand for Do with GET and no request body.
func (g *SessionGateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodGet, path, nil, out)
}

// Post is shorthand for Do with POST.
func (g *SessionGateway) Post(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, http.MethodPost, path, body, out)
}

// Delete is shorthand for Do with DELETE and no request body.
func (g *SessionGateway) Delete(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodDelete, path, nil, out)
}

func (g *SessionGateway) doOnce(ctx context.Context, method, path string, body, out any, headers []http.Header) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}
	}
	pair, err := g.tokens.Pair(ctx)
	if err != nil {
		return err
	}
	if pair.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("failed to decode response from %s: %w", path, err)
			}
		}
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: parseErrorMessage(data)}
	if resp.StatusCode == http.StatusNotFound {
		// Not-found is an expected outcome for lookups.
		g.logger.Debug("backend returned 404", zap.String("path", path))
	} else {
		g.logger.Warn("backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
	}
	return apiErr
}

// isAuthPath reports whether path is itself a login or refresh call; those
// never trigger the refresh protocol.
func (g *SessionGateway) isAuthPath(path string) bool {
	return path == g.loginPath || path == g.refreshPath
}

func parseErrorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "request failed"
}
