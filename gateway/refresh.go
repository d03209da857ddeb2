package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"medigate/models"

	"go.uber.org/zap"
)

// refresh runs the single-flight refresh protocol. Exactly one refresh HTTP
// call is in flight per gateway at any time; callers arriving while it runs
// wait on a FIFO queue and share its outcome. A failed refresh is terminal:
// tokens are cleared, every waiter gets ErrSessionExpired, session-end
// subscribers fire, and later calls fail fast until Authorize installs a
// fresh pair.
func (g *SessionGateway) refresh(ctx context.Context) error {
	g.mu.Lock()
	if g.loggedOut {
		g.mu.Unlock()
		return ErrSessionExpired
	}
	if g.refreshing {
		ch := make(chan error, 1)
		g.waiters = append(g.waiters, ch)
		g.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.refreshing = true
	g.mu.Unlock()

	err := g.doRefresh(ctx)

	g.mu.Lock()
	waiters := g.waiters
	g.waiters = nil
	g.refreshing = false
	var subscribers []func()
	if err != nil {
		g.loggedOut = true
		subscribers = append(subscribers, g.onEnd...)
	}
	g.mu.Unlock()

	var result error
	if err != nil {
		g.logger.Warn("token refresh failed, ending session", zap.Error(err))
		// Waiters get the session-expired error, never the raw refresh failure.
		result = ErrSessionExpired
	}
	for _, ch := range waiters {
		ch <- result
	}
	for _, fn := range subscribers {
		fn()
	}
	return result
}

// doRefresh performs the actual refresh call and swaps the stored pair
// atomically on success. It bypasses Do so a 401 from the refresh endpoint
// can never recurse into another refresh.
func (g *SessionGateway) doRefresh(ctx context.Context) error {
	pair, err := g.tokens.Pair(ctx)
	if err != nil {
		return err
	}
	if pair.RefreshToken == "" {
		return errors.New("no refresh token held")
	}

	var refreshed models.TokenPair
	err = g.doOnce(ctx, http.MethodPost, g.refreshPath,
		map[string]string{"refreshToken": pair.RefreshToken}, &refreshed, nil)
	if err != nil {
		if cerr := g.tokens.Clear(ctx); cerr != nil {
			g.logger.Warn("failed to clear tokens after refresh failure", zap.Error(cerr))
		}
		return err
	}
	if refreshed.AccessToken == "" {
		if cerr := g.tokens.Clear(ctx); cerr != nil {
			g.logger.Warn("failed to clear tokens after refresh failure", zap.Error(cerr))
		}
		return fmt.Errorf("refresh endpoint returned no access token")
	}
	if refreshed.RefreshToken == "" {
		// Backend may rotate only the access token.
		refreshed.RefreshToken = pair.RefreshToken
	}
	return g.tokens.Save(ctx, refreshed)
}

// Authorize installs a fresh token pair (after login) and lifts the
// logged-out latch.
func (g *SessionGateway) Authorize(ctx context.Context, pair models.TokenPair) error {
	if err := g.tokens.Save(ctx, pair); err != nil {
		return err
	}
	g.mu.Lock()
	g.loggedOut = false
	g.mu.Unlock()
	return nil
}

// ClearSession drops the stored tokens on explicit logout. Unlike a refresh
// failure it does not notify session-end subscribers; the caller initiated
// this.
func (g *SessionGateway) ClearSession(ctx context.Context) error {
	g.mu.Lock()
	g.loggedOut = true
	g.mu.Unlock()
	return g.tokens.Clear(ctx)
}

// OnSessionEnd registers a callback fired once when a failed refresh ends
// the session.
func (g *SessionGateway) OnSessionEnd(fn func()) {
	g.mu.Lock()
	g.onEnd = append(g.onEnd, fn)
	g.mu.Unlock()
}
