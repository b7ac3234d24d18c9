package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"academy-api/internal/logs"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthService struct {
	CreateUserFn        func(user User, academyName string) (*User, uint, error)
	GetUserFn           func(email string) (*User, error)
	GetUserByIDFn       func(id uint) (*User, error)
	ListUsersFn         func(f UserFilter) ([]User, int64, error)
	AcademicIDForUserFn func(user *User) (uint, error)
	AcademyExistsFn     func(id uint) (bool, error)
	CreateProfileFn     func(userID uint, in ProfileInput) (*Profile, error)
	ListProfilesFn      func(userID uint) ([]Profile, error)
	DeleteProfileFn     func(userID, profileID uint) error
}

func (m *mockAuthService) CreateUser(user User, academyName string) (*User, uint, error) {
	if m.CreateUserFn == nil {
		return nil, 0, assertErr("CreateUser not implemented")
	}
	return m.CreateUserFn(user, academyName)
}

func (m *mockAuthService) GetUser(email string) (*User, error) {
	if m.GetUserFn == nil {
		return nil, assertErr("GetUser not implemented")
	}
	return m.GetUserFn(email)
}

func (m *mockAuthService) GetUserByID(id uint) (*User, error) {
	if m.GetUserByIDFn == nil {
		return nil, assertErr("GetUserByID not implemented")
	}
	return m.GetUserByIDFn(id)
}

func (m *mockAuthService) ListUsers(f UserFilter) ([]User, int64, error) {
	if m.ListUsersFn == nil {
		return nil, 0, assertErr("ListUsers not implemented")
	}
	return m.ListUsersFn(f)
}

func (m *mockAuthService) AcademicIDForUser(user *User) (uint, error) {
	if m.AcademicIDForUserFn == nil {
		return 0, nil
	}
	return m.AcademicIDForUserFn(user)
}

func (m *mockAuthService) AcademyExists(id uint) (bool, error) {
	if m.AcademyExistsFn == nil {
		return false, nil
	}
	return m.AcademyExistsFn(id)
}

func (m *mockAuthService) CreateProfile(userID uint, in ProfileInput) (*Profile, error) {
	if m.CreateProfileFn == nil {
		return nil, assertErr("CreateProfile not implemented")
	}
	return m.CreateProfileFn(userID, in)
}

func (m *mockAuthService) ListProfiles(userID uint) ([]Profile, error) {
	if m.ListProfilesFn == nil {
		return nil, assertErr("ListProfiles not implemented")
	}
	return m.ListProfilesFn(userID)
}

func (m *mockAuthService) DeleteProfile(userID, profileID uint) error {
	if m.DeleteProfileFn == nil {
		return assertErr("DeleteProfile not implemented")
	}
	return m.DeleteProfileFn(userID, profileID)
}

type mockLogService struct {
	LogFn func(entry logs.SystemLog, payload any) error
}

func (m *mockLogService) Log(entry logs.SystemLog, payload any) error {
	if m.LogFn == nil {
		return nil
	}
	return m.LogFn(entry, payload)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// setupAuthRouter fakes AuthMiddleware with X-UserID / X-Role headers.
func setupAuthRouter(ac *AuthController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-UserID"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Set("userID", f)
			}
		}
		if v := c.GetHeader("X-Role"); v != "" {
			c.Set("role", v)
		}
		c.Next()
	})

	r.POST("/login", ac.Login)
	r.POST("/signup", ac.SignUp)
	r.POST("/logout", ac.Logout)
	r.GET("/me", ac.Me)
	r.POST("/refresh", ac.Refresh)
	r.POST("/impersonate", ac.Impersonate)
	r.DELETE("/impersonate", ac.StopImpersonation)
	r.GET("/users", ac.GetUsers)
	r.GET("/profiles", ac.ListProfiles)
	r.POST("/profiles", ac.CreateProfile)
	r.DELETE("/profiles/:id", ac.DeleteProfile)

	return r
}

func postJSON(r http.Handler, path string, body []byte, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func doReq(r http.Handler, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func doReqWithHeader(r http.Handler, method, path, key, value string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(key, value)
	}
	r.ServeHTTP(w, req)
	return w
}

func requireContains(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected %q to contain %q", s, sub)
	}
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(b)
}

func cookieHeader(resp *http.Response, name string) (string, bool) {
	prefix := name + "="
	for _, h := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(h, prefix) {
			return h, true
		}
	}
	return "", false
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
