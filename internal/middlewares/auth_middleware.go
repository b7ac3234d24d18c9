package middlewares

import (
	"errors"
	"net/http"
	"strconv"

	"academy-api/config"
	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin    = "admin"
	RoleAcademic = "academic"
	RoleUser     = "user"
)

var errInvalidUserID = errors.New("invalid user ID")

// ParseToken validates an HS256 token signed with secret and returns its claims.
func ParseToken(secret, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("Invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("Invalid or expired token")
	}
	return claims, nil
}

// ClaimUint reads a numeric claim that may have been encoded as a number or a string.
func ClaimUint(claims jwt.MapClaims, key string) (uint, error) {
	switch v := claims[key].(type) {
	case nil:
		return 0, nil
	case float64:
		if v < 0 {
			return 0, errInvalidUserID
		}
		return uint(v), nil
	case string:
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, errInvalidUserID
		}
		return uint(n), nil
	default:
		return 0, errInvalidUserID
	}
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.LoadConfig()
		accessToken, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			c.Abort()
			return
		}

		claims, err := ParseToken(cfg.JWTSecret, accessToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		userID, err := ClaimUint(claims, "user_id")
		if err != nil || userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			role = RoleUser
		}
		academicID, _ := ClaimUint(claims, "academic_id")
		impersonated, _ := ClaimUint(claims, "impersonated_academic_id")

		c.Set("userID", float64(userID))
		c.Set("role", role)
		c.Set("academicID", academicID)
		c.Set("impersonatedAcademicID", impersonated)
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		c.Abort()
	}
}

func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || f <= 0 {
		return 0, false
	}
	return uint(f), true
}

func Role(c *gin.Context) string {
	return c.GetString("role")
}

// TenantAcademicID resolves the academy the request acts for. Academic users
// act for their own academy, admins for the academy they impersonate.
func TenantAcademicID(c *gin.Context) (uint, error) {
	switch Role(c) {
	case RoleAcademic:
		if id, _ := c.Get("academicID"); id != nil {
			if v, ok := id.(uint); ok && v > 0 {
				return v, nil
			}
		}
		return 0, util.ErrForbidden
	case RoleAdmin:
		if id, _ := c.Get("impersonatedAcademicID"); id != nil {
			if v, ok := id.(uint); ok && v > 0 {
				return v, nil
			}
		}
		return 0, util.NewFieldError("academic_id", "select an academy to impersonate first")
	}
	return 0, util.ErrForbidden
}
