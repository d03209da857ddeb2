package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"medigate/config"
	"medigate/gateway"
	"medigate/models"
	"medigate/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownSession is returned for a session ID that never existed or whose
// tokens have expired out of Redis.
var ErrUnknownSession = errors.New("unknown or expired session")

// SessionService owns browser sessions: it proxies login to the backend,
// keeps each session's upstream token pair server-side, and hands out the
// one SessionGateway bound to a session.
type SessionService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Gateway(ctx context.Context, sessionID string) (*gateway.SessionGateway, error)
}

// DefaultSessionService is the production implementation. Gateways are
// cached per session so the single-flight refresh guarantee holds across
// all of a session's concurrent calls.
type DefaultSessionService struct {
	SessionCache *redis.Client

	mu       sync.Mutex
	gateways map[string]*gateway.SessionGateway
}

func NewDefaultSessionService(sessionCache *redis.Client) *DefaultSessionService {
	return &DefaultSessionService{
		SessionCache: sessionCache,
		gateways:     make(map[string]*gateway.SessionGateway),
	}
}

// loginResponse is the backend's login contract.
type loginResponse struct {
	User         models.UserInfo `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

func (s *DefaultSessionService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	logger := utils.GetLogger()

	// The login call itself carries no session; use a throwaway gateway.
	bare := gateway.New(gateway.Options{
		BaseURL:     config.AppConfig.BackendBaseURL,
		LoginPath:   config.AppConfig.BackendLoginPath,
		RefreshPath: config.AppConfig.RefreshPath,
	})
	var resp loginResponse
	if err := bare.Post(ctx, config.AppConfig.BackendLoginPath, creds, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, fmt.Errorf("backend login returned an incomplete token pair")
	}

	sessionID := uuid.New().String()
	expiresAt := s.sessionExpiry(resp.RefreshToken)

	gw := s.buildGateway(sessionID, time.Until(expiresAt))
	pair := models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := gw.Authorize(ctx, pair); err != nil {
		return nil, fmt.Errorf("failed to persist session tokens: %w", err)
	}

	s.mu.Lock()
	s.gateways[sessionID] = gw
	s.mu.Unlock()

	logger.Info("session established",
		zap.String("sessionID", sessionID),
		zap.String("userID", resp.User.ID),
		zap.String("role", resp.User.Role))

	return &models.LoginResult{SessionID: sessionID, User: resp.User, ExpiresAt: expiresAt}, nil
}

func (s *DefaultSessionService) Logout(ctx context.Context, sessionID string) error {
	gw, err := s.Gateway(ctx, sessionID)
	if err != nil {
		return err
	}
	s.evict(sessionID)
	return gw.ClearSession(ctx)
}

// Gateway returns the session's gateway, rebuilding it from Redis after a
// process restart.
func (s *DefaultSessionService) Gateway(ctx context.Context, sessionID string) (*gateway.SessionGateway, error) {
	s.mu.Lock()
	gw, ok := s.gateways[sessionID]
	s.mu.Unlock()
	if ok {
		return gw, nil
	}

	store := s.tokenStore(sessionID, s.sessionTTL())
	pair, err := store.Pair(ctx)
	if err != nil {
		return nil, err
	}
	if pair.RefreshToken == "" {
		return nil, ErrUnknownSession
	}

	gw = s.buildGateway(sessionID, s.sessionTTL())

	s.mu.Lock()
	if cached, ok := s.gateways[sessionID]; ok {
		// Another request rebuilt it first; keep the single instance.
		gw = cached
	} else {
		s.gateways[sessionID] = gw
	}
	s.mu.Unlock()
	return gw, nil
}

func (s *DefaultSessionService) buildGateway(sessionID string, ttl time.Duration) *gateway.SessionGateway {
	gw := gateway.New(gateway.Options{
		BaseURL:     config.AppConfig.BackendBaseURL,
		LoginPath:   config.AppConfig.BackendLoginPath,
		RefreshPath: config.AppConfig.RefreshPath,
		Tokens:      s.tokenStore(sessionID, ttl),
	})
	gw.OnSessionEnd(func() {
		utils.GetLogger().Info("upstream session ended", zap.String("sessionID", sessionID))
		s.evict(sessionID)
	})
	return gw
}

func (s *DefaultSessionService) tokenStore(sessionID string, ttl time.Duration) *gateway.RedisTokenStore {
	return gateway.NewRedisTokenStore(s.SessionCache, utils.SessionKeyPrefix+sessionID, ttl)
}

func (s *DefaultSessionService) evict(sessionID string) {
	s.mu.Lock()
	delete(s.gateways, sessionID)
	s.mu.Unlock()
}

func (s *DefaultSessionService) sessionTTL() time.Duration {
	return time.Duration(config.AppConfig.SessionTTLHours) * time.Hour
}

// sessionExpiry prefers the refresh token's own exp claim; opaque tokens
// fall back to the configured TTL.
func (s *DefaultSessionService) sessionExpiry(refreshToken string) time.Time {
	if exp, err := utils.TokenExpiry(refreshToken); err == nil && exp.After(time.Now()) {
		return exp
	}
	return time.Now().Add(s.sessionTTL())
}
