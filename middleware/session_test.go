package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"medigate/gateway"
	"medigate/models"
	"medigate/services/session"

	"github.com/gin-gonic/gin"
)

type fakeSessionService struct {
	knownID string
	gw      *gateway.SessionGateway
}

func (f *fakeSessionService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	return nil, nil
}

func (f *fakeSessionService) Logout(ctx context.Context, sessionID string) error {
	return nil
}

func (f *fakeSessionService) Gateway(ctx context.Context, sessionID string) (*gateway.SessionGateway, error) {
	if sessionID != f.knownID {
		return nil, session.ErrUnknownSession
	}
	return f.gw, nil
}

func newSessionRouter(svc session.SessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(svc))
	r.GET("/probe", func(c *gin.Context) {
		if _, ok := GatewayFrom(c); !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no gateway in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessionID": c.GetString("sessionID")})
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	svc := &fakeSessionService{
		knownID: "sess-1",
		gw:      gateway.New(gateway.Options{Tokens: &gateway.MemoryTokenStore{}}),
	}
	router := newSessionRouter(svc)

	cases := []struct {
		name       string
		sessionID  string
		useCookie  bool
		wantStatus int
	}{
		{name: "missing session", sessionID: "", wantStatus: http.StatusUnauthorized},
		{name: "unknown session", sessionID: "sess-9", wantStatus: http.StatusUnauthorized},
		{name: "valid header session", sessionID: "sess-1", wantStatus: http.StatusOK},
		{name: "valid cookie session", sessionID: "sess-1", useCookie: true, wantStatus: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.sessionID != "" {
				if tc.useCookie {
					req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.sessionID})
				} else {
					req.Header.Set(SessionHeader, tc.sessionID)
				}
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}
