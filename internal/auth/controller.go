package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"academy-api/config"
	"academy-api/internal/logs"
	"academy-api/internal/middlewares"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTTL        = 15 * time.Minute
	refreshTTL       = 24 * time.Hour
	rememberMeTTL    = 30 * 24 * time.Hour
	loginFailMessage = "Oops! We couldn’t log you in. Please check your username and password and try again."
)

var hash = util.HashPassword

type AuthController struct {
	AuthService AuthServicePort
	LS          LogServicePort
}

// session is what the access and refresh tokens carry.
type session struct {
	UserID       uint
	Role         string
	AcademicID   uint
	Impersonated uint
	Remember     bool
}

func (s session) claims(exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":                  s.UserID,
		"role":                     s.Role,
		"academic_id":              s.AcademicID,
		"impersonated_academic_id": s.Impersonated,
		"remember":                 s.Remember,
		"exp":                      exp.Unix(),
	}
}

func sessionFromClaims(claims jwt.MapClaims) (session, error) {
	uid, err := middlewares.ClaimUint(claims, "user_id")
	if err != nil || uid == 0 {
		return session{}, fmt.Errorf("invalid user ID")
	}
	s := session{UserID: uid}
	s.Role, _ = claims["role"].(string)
	s.AcademicID, _ = middlewares.ClaimUint(claims, "academic_id")
	s.Impersonated, _ = middlewares.ClaimUint(claims, "impersonated_academic_id")
	s.Remember, _ = claims["remember"].(bool)
	return s, nil
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   maxAge,
	})
}

func issueTokens(c *gin.Context, secret string, s session, withRefresh bool) error {
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims(time.Now().Add(accessTTL))).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	setCookie(c, "access_token", access, 0)

	if !withRefresh {
		return nil
	}
	ttl := refreshTTL
	if s.Remember {
		ttl = rememberMeTTL
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims(time.Now().Add(ttl))).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	setCookie(c, "refresh_token", refresh, 0)
	return nil
}

func toLoginResponse(u *User, s session) LoginResponse {
	return LoginResponse{
		ID:                     u.ID,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		Email:                  u.Email,
		Role:                   u.Role,
		AcademicID:             s.AcademicID,
		ImpersonatedAcademicID: s.Impersonated,
	}
}

func (ac *AuthController) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	password, err := hash(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Password:  password,
		Role:      req.Role,
	}

	newUser, academicID, err := ac.AuthService.CreateUser(user, req.AcademyName)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}

	uid := newUser.ID
	entry := logs.SystemLog{
		Level:   logs.LevelInfo,
		Service: "auth",
		Action:  "SIGNUP",
		Message: fmt.Sprintf("Account created with email %s", newUser.Email),
		UserID:  &uid,
	}
	if academicID != 0 {
		entry.AcademicID = &academicID
	}
	logs.Record(ac.LS, entry, gin.H{"email": newUser.Email, "role": newUser.Role})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user": gin.H{
			"id":          newUser.ID,
			"firstname":   newUser.FirstName,
			"lastname":    newUser.LastName,
			"email":       newUser.Email,
			"role":        newUser.Role,
			"academic_id": academicID,
		},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.AuthService.GetUser(req.Email)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": loginFailMessage})
		return
	}
	if err := util.VerifyPassword(req.Password, user.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": loginFailMessage})
		return
	}

	academicID, err := ac.AuthService.AcademicIDForUser(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s := session{UserID: user.ID, Role: user.Role, AcademicID: academicID, Remember: req.RememberMe}
	cfg := config.LoadConfig()
	if err := issueTokens(c, cfg.JWTSecret, s, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uid := user.ID
	logs.Record(ac.LS, logs.SystemLog{
		Level:   logs.LevelInfo,
		Service: "auth",
		Action:  "LOGIN",
		Message: fmt.Sprintf("User logged in with email: %s", user.Email),
		UserID:  &uid,
	}, gin.H{"email": req.Email, "remember_me": req.RememberMe})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    toLoginResponse(user, s),
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	setCookie(c, "access_token", "", -1)
	setCookie(c, "refresh_token", "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	cfg := config.LoadConfig()

	accessToken, err := c.Cookie("access_token")
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
		return
	}
	claims, err := middlewares.ParseToken(cfg.JWTSecret, accessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	s, err := sessionFromClaims(claims)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.AuthService.GetUserByID(s.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toLoginResponse(user, s)})
}

// Refresh issues a new access token from the refresh cookie, keeping the
// session's role and impersonation.
func (ac *AuthController) Refresh(c *gin.Context) {
	cfg := config.LoadConfig()

	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing refresh token"})
		return
	}
	claims, err := middlewares.ParseToken(cfg.JWTSecret, refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	s, err := sessionFromClaims(claims)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	if err := issueTokens(c, cfg.JWTSecret, s, false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access token refreshed"})
}

// Impersonate lets an admin act for one academy. Both tokens are reissued so
// the impersonation survives a refresh.
func (ac *AuthController) Impersonate(c *gin.Context) {
	var req ImpersonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return
	}

	exists, err := ac.AuthService.AcademyExists(req.AcademicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "academy not found"})
		return
	}

	s := session{UserID: userID, Role: middlewares.RoleAdmin, Impersonated: req.AcademicID}
	if err := issueTokens(c, config.LoadConfig().JWTSecret, s, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	aid := req.AcademicID
	logs.Record(ac.LS, logs.SystemLog{
		Level:      logs.LevelInfo,
		Service:    "auth",
		Action:     "IMPERSONATE",
		Message:    fmt.Sprintf("Admin started acting for academy %d", aid),
		UserID:     &userID,
		AcademicID: &aid,
	}, req)

	c.JSON(http.StatusOK, gin.H{"message": "Impersonation started", "impersonated_academic_id": aid})
}

func (ac *AuthController) StopImpersonation(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return
	}

	s := session{UserID: userID, Role: middlewares.RoleAdmin}
	if err := issueTokens(c, config.LoadConfig().JWTSecret, s, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logs.Record(ac.LS, logs.SystemLog{
		Level:   logs.LevelInfo,
		Service: "auth",
		Action:  "STOP_IMPERSONATE",
		Message: "Admin stopped impersonation",
		UserID:  &userID,
	}, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Impersonation stopped"})
}

func (ac *AuthController) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))

	users, total, err := ac.AuthService.ListUsers(UserFilter{
		Role:     c.Query("role"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetched users successfully",
		"users":   users,
		"total":   total,
	})
}

func (ac *AuthController) CreateProfile(c *gin.Context) {
	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return
	}

	p, err := ac.AuthService.CreateProfile(userID, in)
	if err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (ac *AuthController) ListProfiles(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return
	}
	out, err := ac.AuthService.ListProfiles(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (ac *AuthController) DeleteProfile(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := ac.AuthService.DeleteProfile(userID, uint(id)); err != nil {
		c.JSON(util.ErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted", "id": id})
}
