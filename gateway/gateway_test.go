package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"medigate/models"

	"go.uber.org/zap"
)

// newTestBackend returns a backend stub whose protected endpoints accept
// only validToken, plus a refresh endpoint controlled by refreshStatus.
func newTestBackend(t *testing.T, validToken string, refreshStatus int, refreshCalls *int64, refreshDelay time.Duration) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(refreshCalls, 1)
		if refreshDelay > 0 {
			time.Sleep(refreshDelay)
		}
		if refreshStatus != http.StatusOK {
			w.WriteHeader(refreshStatus)
			w.Write([]byte(`{"message":"refresh denied"}`))
			return
		}
		w.Write([]byte(`{"accessToken":"` + validToken + `","refreshToken":"rotated"}`))
	})
	mux.HandleFunc("/patients", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}
		w.Write([]byte(`{"id":"p1","name":"Jordan"}`))
	})
	return httptest.NewServer(mux)
}

func newTestGateway(baseURL string, pair models.TokenPair) *SessionGateway {
	return New(Options{
		BaseURL: baseURL,
		Tokens:  NewMemoryTokenStore(pair),
		Logger:  zap.NewNop(),
	})
}

func TestSingleFlightRefresh(t *testing.T) {
	var refreshCalls int64
	srv := newTestBackend(t, "fresh", http.StatusOK, &refreshCalls, 30*time.Millisecond)
	defer srv.Close()

	gw := newTestGateway(srv.URL, models.TokenPair{AccessToken: "stale", RefreshToken: "r1"})

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out struct {
				Name string `json:"name"`
			}
			errs[i] = gw.Get(context.Background(), "/patients", &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Errorf("refresh called %d times, want exactly 1", got)
	}
}

func TestRefreshFailureEndsSession(t *testing.T) {
	var refreshCalls int64
	srv := newTestBackend(t, "fresh", http.StatusForbidden, &refreshCalls, 30*time.Millisecond)
	defer srv.Close()

	store := NewMemoryTokenStore(models.TokenPair{AccessToken: "stale", RefreshToken: "r1"})
	gw := New(Options{BaseURL: srv.URL, Tokens: store, Logger: zap.NewNop()})

	var ended int64
	gw.OnSessionEnd(func() { atomic.AddInt64(&ended, 1) })

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = gw.Get(context.Background(), "/patients", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, ErrSessionExpired) {
			t.Errorf("call %d: err = %v, want ErrSessionExpired", i, err)
		}
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Errorf("refresh called %d times, want exactly 1", got)
	}
	if got := atomic.LoadInt64(&ended); got != 1 {
		t.Errorf("session-end fired %d times, want 1", got)
	}
	if pair, _ := store.Pair(context.Background()); pair.AccessToken != "" || pair.RefreshToken != "" {
		t.Errorf("tokens not cleared after refresh failure: %+v", pair)
	}

	// Later calls fail fast without another refresh until a new login.
	if err := gw.Get(context.Background(), "/patients", nil); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("post-failure call: err = %v, want ErrSessionExpired", err)
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Errorf("refresh re-attempted after terminal failure: %d calls", got)
	}

	// A fresh login lifts the latch.
	if err := gw.Authorize(context.Background(), models.TokenPair{AccessToken: "fresh", RefreshToken: "r2"}); err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if err := gw.Get(context.Background(), "/patients", nil); err != nil {
		t.Errorf("call after re-login failed: %v", err)
	}
}

func TestSecondUnauthorizedIsNotRetried(t *testing.T) {
	var refreshCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		w.Write([]byte(`{"accessToken":"fresh","refreshToken":"rotated"}`))
	})
	var protectedCalls int64
	mux.HandleFunc("/patients", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&protectedCalls, 1)
		// Rejects even the refreshed token.
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"unauthorized"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw := newTestGateway(srv.URL, models.TokenPair{AccessToken: "stale", RefreshToken: "r1"})

	err := gw.Get(context.Background(), "/patients", nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Errorf("refresh called %d times, want exactly 1", got)
	}
	if got := atomic.LoadInt64(&protectedCalls); got != 2 {
		t.Errorf("protected endpoint hit %d times, want 2 (original + one retry)", got)
	}
}

func TestAuthPathsNeverTriggerRefresh(t *testing.T) {
	var refreshCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad credentials"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw := newTestGateway(srv.URL, models.TokenPair{AccessToken: "stale", RefreshToken: "r1"})

	err := gw.Post(context.Background(), "/auth/login", map[string]string{"email": "x"}, nil)
	if StatusOf(err) != http.StatusUnauthorized {
		t.Errorf("login 401 must surface as APIError, got %v", err)
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 0 {
		t.Errorf("login failure triggered %d refresh calls, want 0", got)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such patient"}`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw := newTestGateway(srv.URL, models.TokenPair{AccessToken: "t", RefreshToken: "r"})

	err := gw.Get(context.Background(), "/missing", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "no such patient" {
		t.Errorf("404: got %v", err)
	}

	err = gw.Get(context.Background(), "/broken", nil)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError || apiErr.Message != "request failed" {
		t.Errorf("unparseable error body: got %v", err)
	}

	// A closed server is a reachability failure, not an API error.
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	gwDown := newTestGateway(closed.URL, models.TokenPair{})
	err = gwDown.Get(context.Background(), "/anything", nil)
	if !IsNetworkError(err) {
		t.Errorf("unreachable backend: got %v, want NetworkError", err)
	}
}

func TestBearerAndHeaders(t *testing.T) {
	var gotAuth, gotContentType, gotExtra string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotExtra = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, models.TokenPair{AccessToken: "abc", RefreshToken: "r"})
	extra := http.Header{}
	extra.Set("X-Request-Id", "req-1")
	if err := gw.Do(context.Background(), http.MethodGet, "/whoami", nil, nil, extra); err != nil {
		t.Fatalf("Do: %v", err)
	}

	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotExtra != "req-1" {
		t.Errorf("X-Request-Id = %q", gotExtra)
	}
}

func TestNoTokenMeansNoBearer(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, models.TokenPair{})
	if err := gw.Get(context.Background(), "/public", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sawAuth {
		t.Error("Authorization header set without a stored token")
	}
}
