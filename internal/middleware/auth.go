package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/rhanierex/Gym-Management/internal/models"
)

const sessionCookieName = "session"

// Claims are the JWT claims carried by the admin session token
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTSecret resolves the signing key from the environment
func JWTSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-only-secret-change-in-prod")
}

// NewSessionToken issues a signed session token for the admin user
func NewSessionToken(u models.AdminUser, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JWTSecret())
}

// SessionCookie wraps a token in the session cookie. A negative maxAge
// clears it.
func SessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

func parseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}

// RequireAuth returns a middleware that verifies the admin session, from
// either the session cookie or an Authorization bearer token
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if cookie, err := c.Cookie(sessionCookieName); err == nil {
				raw = cookie.Value
			}
			if raw == "" {
				if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
					raw = strings.TrimPrefix(h, "Bearer ")
				}
			}
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "please log in to continue")
			}

			claims, err := parseToken(raw)
			if err != nil {
				c.SetCookie(SessionCookie("", -1))
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired, please log in again")
			}

			c.Set("userID", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("userRole", claims.Role)
			return next(c)
		}
	}
}
