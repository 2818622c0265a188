package inbound_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Mayukh-Jain/equipviz/internal/auth"
	"github.com/Mayukh-Jain/equipviz/internal/auth/inbound"
	"github.com/Mayukh-Jain/equipviz/internal/auth/token"
	"github.com/Mayukh-Jain/equipviz/internal/auth/usecase"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkguid"
)

func newTestRouter(t *testing.T) (*pkgrouter.Router, *token.Issuer) {
	t.Helper()

	issuer := token.NewIssuer([]byte("test-secret"), time.Hour)
	uc := usecase.New(usecase.Dependency{
		Issuer: issuer,
		Users:  map[string]string{"admin": "admin123"},
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	inbound.RegisterHTTPEndpoint(router, uc)

	// one guarded endpoint to exercise the middleware end to end
	router.GET("/private", func(ctx context.Context, r *http.Request) (any, error) {
		return map[string]string{"message": "ok"}, nil
	}, auth.Middleware(issuer))

	return router, issuer
}

func postToken(t *testing.T, router http.Handler, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/token/", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTokenWithJSONCredentials(t *testing.T) {
	router, issuer := newTestRouter(t)

	rec := postToken(t, router, "application/json", `{"username":"admin","password":"admin123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var resp inbound.TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Access == "" {
		t.Fatal("access token is empty")
	}

	claims, err := issuer.Verify(resp.Access)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Username != "admin" {
		t.Fatalf("unexpected subject: %q", claims.Username)
	}
}

func TestTokenWithFormCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"username": {"admin"}, "password": {"admin123"}}
	rec := postToken(t, router, "application/x-www-form-urlencoded", form.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTokenWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postToken(t, router, "application/json", `{"username":"admin","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp["error"] != "invalid username or password" {
		t.Fatalf("unexpected error message: %q", resp["error"])
	}
}

func TestTokenMalformedJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postToken(t, router, "application/json", `{"username":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTokenEmptyBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postToken(t, router, "application/x-www-form-urlencoded", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMiddlewareGuardsEndpoint(t *testing.T) {
	router, issuer := newTestRouter(t)

	// no token
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// garbage token
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}

	// valid token
	raw, err := issuer.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d body=%s", rec.Code, rec.Body.String())
	}
}
