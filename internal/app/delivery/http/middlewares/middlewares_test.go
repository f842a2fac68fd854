package middlewares

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSessionTokenManager struct {
	mock.Mock
}

func (m *MockSessionTokenManager) CreateSessionToken(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionTokenManager) VerifySessionToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("success"))
}

func TestRequestIDMiddleware(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), nil, &config.InternalConfig{})

	var seen string
	handler := middlewares.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	}))

	t.Run("Generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.True(t, strings.HasPrefix(seen, constvars.REQUEST_ID_PREFIX), "generated id should carry the service prefix")
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Client supplied", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-req-1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-req-1", seen)
		assert.Equal(t, "client-req-1", rr.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestRequireSessionToken(t *testing.T) {
	tokens := new(MockSessionTokenManager)
	middlewares := NewMiddlewares(zap.NewNop(), tokens, &config.InternalConfig{})

	router := chi.NewRouter()
	router.With(middlewares.RequireSessionToken).Get("/sessions/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		sessionID, _ := r.Context().Value(constvars.CONTEXT_SESSION_ID_KEY).(string)
		w.Write([]byte(sessionID))
	})

	tokens.On("VerifySessionToken", mock.Anything, "token-s1").Return("s1", nil)
	tokens.On("VerifySessionToken", mock.Anything, "expired").Return("", exceptions.ErrTokenInvalidOrExpired(errors.New("token is expired")))

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "Valid token", path: "/sessions/s1", header: "Bearer token-s1", wantStatus: http.StatusOK, wantBody: "s1"},
		{name: "Missing header", path: "/sessions/s1", wantStatus: http.StatusUnauthorized},
		{name: "Missing bearer prefix", path: "/sessions/s1", header: "token-s1", wantStatus: http.StatusUnauthorized},
		{name: "Empty bearer", path: "/sessions/s1", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "Expired token", path: "/sessions/s1", header: "Bearer expired", wantStatus: http.StatusUnauthorized},
		{name: "Token for another session", path: "/sessions/s2", header: "Bearer token-s1", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(constvars.HeaderAuthorization, tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), nil, &config.InternalConfig{})
	handler := middlewares.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("engine exploded")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), constvars.ErrClientCannotProcessRequest)
}

func TestRateLimiter(t *testing.T) {
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute, 5*time.Minute, zap.NewNop())
	limiter.now = func() time.Time { return clock }
	handler := limiter.Limit(http.HandlerFunc(okHandler))

	serve := func(remoteAddr string) int {
		req := httptest.NewRequest("POST", "/submit", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:5000"), "other clients are not affected")

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:5003"), "still blocked")

	clock = clock.Add(4 * time.Minute)
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:5004"))
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute, 5*time.Minute, zap.NewNop())
	limiter.now = func() time.Time { return clock }
	handler := limiter.Limit(http.HandlerFunc(okHandler))

	serve := func(remoteAddr string) int {
		req := httptest.NewRequest("POST", "/submit", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 1; i <= 50; i++ {
		require.Equal(t, http.StatusOK, serve(fmt.Sprintf("10.0.1.%d:4000", i)))
	}
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.1.1:4001"))
	assert.Equal(t, 50, limiter.trackedClients())

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, serve("10.0.2.1:4000"))
	assert.Equal(t, 2, limiter.trackedClients(), "the blocked client is kept until its block ends")
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.1.1:4002"))

	clock = clock.Add(5 * time.Minute)
	assert.Equal(t, http.StatusOK, serve("10.0.1.1:4003"))
	assert.Equal(t, 1, limiter.trackedClients())
}

func TestBodyLimit(t *testing.T) {
	middlewares := NewMiddlewares(zap.NewNop(), nil, &config.InternalConfig{App: config.App{RequestBodyLimitInMegabyte: 1}})

	var readErr error
	handler := middlewares.BodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	small := httptest.NewRequest("PUT", "/", strings.NewReader(`{"answer":{}}`))
	handler.ServeHTTP(httptest.NewRecorder(), small)
	assert.NoError(t, readErr)

	large := httptest.NewRequest("PUT", "/", strings.NewReader(strings.Repeat("a", 2<<20)))
	handler.ServeHTTP(httptest.NewRecorder(), large)
	assert.Error(t, readErr)
}
