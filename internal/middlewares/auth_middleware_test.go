package middlewares

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setJWTSecretEnv(t *testing.T, secret string) {
	t.Helper()
	_ = os.Setenv("JWT_SECRET", secret)
	t.Cleanup(func() { _ = os.Unsetenv("JWT_SECRET") })
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/ok", func(c *gin.Context) {
		uid, _ := c.Get("userID")
		tenant, err := TenantAcademicID(c)
		body := gin.H{
			"userID":       uid,
			"role":         Role(c),
			"tenant":       tenant,
			"reached_next": true,
		}
		if err != nil {
			body["tenant_error"] = err.Error()
		}
		c.JSON(200, body)
	})
	r.GET("/admin", RequireRoles(RoleAdmin), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func doReq(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json unmarshal: %v body=%s", err, w.Body.String())
	}
	return body
}

func TestAuthMiddleware_MissingCookie_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	w := doReq(newTestRouter(), "/ok", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Missing access token") {
		t.Fatalf("expected Missing access token, got %s", w.Body.String())
	}
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	setJWTSecretEnv(t, "server-secret")
	r := newTestRouter()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":1}`))

	tokens := map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": signHS256(t, "other-secret", jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()}),
		"expired":      signHS256(t, "server-secret", jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(-time.Hour).Unix()}),
		"bad sig":      header + "." + payload + ".invalidsig",
	}

	for name, tok := range tokens {
		t.Run(name, func(t *testing.T) {
			w := doReq(r, "/ok", tok)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), "Invalid or expired token") {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_InvalidUserID_401(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	for _, uid := range []any{"abc", []any{1}, 0} {
		token := signHS256(t, "test-secret", jwt.MapClaims{
			"user_id": uid,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		w := doReq(r, "/ok", token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("user_id=%v: expected 401, got %d", uid, w.Code)
		}
		if !strings.Contains(w.Body.String(), "invalid user ID") {
			t.Fatalf("user_id=%v: unexpected body %s", uid, w.Body.String())
		}
	}
}

func TestAuthMiddleware_AcademicRole_TenantIsOwnAcademy(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id":     float64(42),
		"role":        RoleAcademic,
		"academic_id": float64(7),
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	w := doReq(newTestRouter(), "/ok", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["userID"] != float64(42) {
		t.Fatalf("expected userID 42, got %#v", body["userID"])
	}
	if body["role"] != RoleAcademic {
		t.Fatalf("unexpected role %#v", body["role"])
	}
	if body["tenant"] != float64(7) {
		t.Fatalf("expected tenant 7, got %#v", body["tenant"])
	}
}

func TestAuthMiddleware_StringUserID_DefaultsToUserRole(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	token := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": "123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	body := decode(t, doReq(newTestRouter(), "/ok", token))
	if body["userID"] != float64(123) {
		t.Fatalf("expected userID 123, got %#v", body["userID"])
	}
	if body["role"] != RoleUser {
		t.Fatalf("expected user role, got %#v", body["role"])
	}
	if body["tenant_error"] != util.ErrForbidden.Error() {
		t.Fatalf("expected forbidden tenant, got %#v", body["tenant_error"])
	}
}

func TestTenantAcademicID_Admin(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	plain := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id": 1,
		"role":    RoleAdmin,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	body := decode(t, doReq(r, "/ok", plain))
	if !strings.Contains(body["tenant_error"].(string), "impersonate") {
		t.Fatalf("expected impersonate hint, got %#v", body["tenant_error"])
	}

	impersonating := signHS256(t, "test-secret", jwt.MapClaims{
		"user_id":                  1,
		"role":                     RoleAdmin,
		"impersonated_academic_id": 9,
		"exp":                      time.Now().Add(time.Hour).Unix(),
	})
	body = decode(t, doReq(r, "/ok", impersonating))
	if body["tenant"] != float64(9) {
		t.Fatalf("expected tenant 9, got %#v", body["tenant"])
	}
}

func TestRequireRoles(t *testing.T) {
	setJWTSecretEnv(t, "test-secret")
	r := newTestRouter()

	userTok := signHS256(t, "test-secret", jwt.MapClaims{"user_id": 1, "role": RoleUser, "exp": time.Now().Add(time.Hour).Unix()})
	if w := doReq(r, "/admin", userTok); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	adminTok := signHS256(t, "test-secret", jwt.MapClaims{"user_id": 1, "role": RoleAdmin, "exp": time.Now().Add(time.Hour).Unix()})
	if w := doReq(r, "/admin", adminTok); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}
