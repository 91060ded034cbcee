package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandeepreddy1606/ai-document-assistance/pkg/utils"
)

func newAuthRouter(cfg AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(cfg))
	r.GET("/v1/projects", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserIDFromGin(c)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	r := newAuthRouter(AuthConfig{Secret: "s", Issuer: "i", Enabled: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	mgr := utils.NewJWTManager("secret", "issuer")
	token, err := mgr.GenerateToken("u-42", "a@b.c", "Alice", time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := newAuthRouter(AuthConfig{Secret: "secret", Issuer: "issuer", Enabled: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestAuth_SkipPaths(t *testing.T) {
	r := newAuthRouter(AuthConfig{Secret: "s", Issuer: "i", Enabled: true, SkipPaths: []string{"/health"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAuth_DisabledPassesThrough(t *testing.T) {
	r := newAuthRouter(AuthConfig{Enabled: false})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
