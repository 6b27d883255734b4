package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/boardsearch/internal/logger"
)

func userEcho() (http.Handler, *string) {
	var seen string
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), &seen
}

func TestIdentity_ValidToken(t *testing.T) {
	next, seen := userEcho()
	handler := IdentityMiddleware(map[string]string{"key1": "alice", "key2": "bob"})(next)

	for token, user := range map[string]string{"key1": "alice", "key2": "bob"} {
		req := httptest.NewRequest(http.MethodGet, "/search/stats", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("token %s: got %d, want %d", token, rr.Code, http.StatusOK)
		}
		if *seen != user {
			t.Errorf("token %s: user = %q, want %q", token, *seen, user)
		}
	}
}

func TestIdentity_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"unknown token", "Bearer wrong-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := userEcho()
			handler := IdentityMiddleware(map[string]string{"secret": "alice"})(next)

			req := httptest.NewRequest(http.MethodGet, "/search/stats", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			decode(t, rr, http.StatusUnauthorized)
		})
	}
}

func TestIdentity_EmptyEntriesIgnored(t *testing.T) {
	next, _ := userEcho()
	handler := IdentityMiddleware(map[string]string{"": "alice", "tok": ""})(next)

	// falls back to header mode, which requires the header
	req := httptest.NewRequest(http.MethodGet, "/search/stats", http.NoBody)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestIdentity_HeaderModeWithoutTokens(t *testing.T) {
	next, seen := userEcho()
	handler := IdentityMiddleware(nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/search/stats", http.NoBody)
	req.Header.Set(UserHeader, " carol ")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || *seen != "carol" {
		t.Errorf("got %d user %q", rr.Code, *seen)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/search/stats", http.NoBody))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d", rr.Code)
	}
}

func TestIdentity_ExemptPaths(t *testing.T) {
	next, _ := userEcho()
	handler := IdentityMiddleware(map[string]string{"secret": "alice"})(next)

	for _, path := range []string{"/health", "/metrics"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}

func TestIdentity_TagsRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Info("handled")
		w.WriteHeader(http.StatusOK)
	})
	handler := IdentityMiddleware(map[string]string{"key1": "alice"})(next)

	req := httptest.NewRequest(http.MethodGet, "/search/stats", http.NoBody)
	req = req.WithContext(logpkg.WithLogger(context.Background(), zap.New(core)))
	req.Header.Set("Authorization", "Bearer key1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()[logpkg.KeyUser]; got != "alice" {
		t.Errorf("user field = %v, want alice", got)
	}
}
