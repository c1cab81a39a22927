package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// RequireAuth rejects requests without a valid bearer token and puts the
// authenticated account id into the request context.
func RequireAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := userIDFromToken(c, jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
			}
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// OptionalAuth resolves the principal when a token is present but lets
// anonymous requests through; the access gate denies them downstream.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID, err := userIDFromToken(c, jwtSecret); err == nil {
				c.Set(userIDKey, userID)
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated account id, or 0 for anonymous requests.
func UserID(c echo.Context) uint {
	if id, ok := c.Get(userIDKey).(uint); ok {
		return id
	}
	return 0
}

func userIDFromToken(c echo.Context, jwtSecret string) (uint, error) {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return 0, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	userIDFloat, ok := claims[userIDKey].(float64)
	if !ok {
		return 0, fmt.Errorf("missing user_id claim")
	}

	return uint(userIDFloat), nil
}
