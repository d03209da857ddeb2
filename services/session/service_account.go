package session

import (
	"context"
	"fmt"

	"medigate/config"
	"medigate/gateway"
	"medigate/models"
)

// ServiceGateway logs the configured service account into the backend and
// returns an in-memory gateway for background workers. It refreshes like any
// other session; if the refresh ever fails the worker must call this again.
func ServiceGateway(ctx context.Context) (*gateway.SessionGateway, error) {
	cfg := config.AppConfig
	if cfg.ServiceAccountID == "" {
		return nil, fmt.Errorf("no service account configured")
	}

	gw := gateway.New(gateway.Options{
		BaseURL:     cfg.BackendBaseURL,
		LoginPath:   cfg.BackendLoginPath,
		RefreshPath: cfg.RefreshPath,
		Tokens:      &gateway.MemoryTokenStore{},
	})

	creds := models.Credentials{Email: cfg.ServiceAccountID, Password: cfg.ServiceAccountKey}
	var resp loginResponse
	if err := gw.Post(ctx, cfg.BackendLoginPath, creds, &resp); err != nil {
		return nil, fmt.Errorf("service account login failed: %w", err)
	}

	pair := models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := gw.Authorize(ctx, pair); err != nil {
		return nil, err
	}
	return gw, nil
}
