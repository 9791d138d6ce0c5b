package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	handlershared "github.com/Umair-Web/BTOBPortal/internal/http/handlers/shared"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type fakeResolver struct {
	claims     *service.UserJWTClaims
	parseErr   error
	actor      *authz.Actor
	resolveErr error
}

func (f *fakeResolver) ParseUserJWT(tokenString string) (*service.UserJWTClaims, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.claims, nil
}

func (f *fakeResolver) ResolveActor(ctx context.Context, claims *service.UserJWTClaims) (*authz.Actor, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.actor, nil
}

type fakeEnforcer map[string]bool

func (f fakeEnforcer) EnforceRole(role, obj, act string) (bool, error) {
	return f[role+" "+act+" "+authz.NormalizeObject(obj)], nil
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buyer := &authz.Actor{UserID: 5, Email: "buyer@example.com", Role: constants.RoleUser}

	cases := []struct {
		name     string
		header   string
		resolver *fakeResolver
		want     int
	}{
		{"missing header", "", &fakeResolver{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &fakeResolver{}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", &fakeResolver{parseErr: errors.New("signature invalid")}, http.StatusUnauthorized},
		{"deleted user", "Bearer ok", &fakeResolver{claims: &service.UserJWTClaims{UserID: 5}, resolveErr: authz.ErrUnauthenticated}, http.StatusUnauthorized},
		{"valid", "Bearer ok", &fakeResolver{claims: &service.UserJWTClaims{UserID: 5}, actor: buyer}, http.StatusOK},
	}
	for _, tc := range cases {
		r := gin.New()
		r.Use(UserJWTAuthMiddleware(tc.resolver))
		r.GET("/me", func(c *gin.Context) {
			actor, ok := handlershared.GetActor(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: status want %d got %d (%s)", tc.name, tc.want, w.Code, w.Body.String())
		}
		if tc.want == http.StatusUnauthorized && decodeStatusCode(t, w) != 401 {
			t.Fatalf("%s: envelope status_code should be 401", tc.name)
		}
	}
}

func TestRBACMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	enforcer := fakeEnforcer{
		"DELIVERY PUT /orders/items/:id": true,
	}

	for _, tc := range []struct {
		name  string
		actor *authz.Actor
		want  int
	}{
		{"delivery allowed", &authz.Actor{UserID: 1, Role: constants.RoleDelivery}, http.StatusOK},
		{"user denied", &authz.Actor{UserID: 2, Role: constants.RoleUser}, http.StatusUnauthorized},
		{"anonymous denied", nil, http.StatusUnauthorized},
	} {
		r := gin.New()
		actor := tc.actor
		r.Use(func(c *gin.Context) {
			if actor != nil {
				c.Set(handlershared.ActorContextKey, actor)
			}
			c.Next()
		})
		r.PUT("/api/v1/orders/items/:id", RBACMiddleware(enforcer), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/orders/items/9", nil))
		if w.Code != tc.want {
			t.Fatalf("%s: status want %d got %d", tc.name, tc.want, w.Code)
		}
		if tc.want == http.StatusUnauthorized && !strings.Contains(w.Body.String(), `"msg":"unauthorized"`) {
			t.Fatalf("%s: denial should use the blanket message, got %s", tc.name, w.Body.String())
		}
	}
}

func TestProtectedRouteCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noop := func(c *gin.Context) {}
	r.GET("/api/v1/products", noop)
	r.GET("/api/v1/orders/:id", noop)
	r.PUT("/api/v1/orders/items/:id", noop)
	r.GET("/api/v1/delivery/orders", noop)
	r.POST("/api/v1/admin/products", noop)
	r.DELETE("/api/v1/admin/products/:id", noop)

	got := protectedRouteCatalog(r)
	want := []protectedRoute{
		{Method: "POST", Object: "/admin/products"},
		{Method: "DELETE", Object: "/admin/products/:id"},
		{Method: "GET", Object: "/delivery/orders"},
		{Method: "PUT", Object: "/orders/items/:id"},
	}
	if len(got) != len(want) {
		t.Fatalf("catalog want %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("catalog[%d] want %v got %v", i, want[i], got[i])
		}
	}
}
