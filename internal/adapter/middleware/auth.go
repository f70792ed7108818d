package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	actorKey = "actor"
	// tokens closer than this to expiry get a fresh one in X-New-Token
	renewWindow = 24 * time.Hour
)

// Actor is the authenticated caller.
type Actor struct {
	MemberID string
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for memberID.
func IssueToken(secret []byte, memberID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString(secret)
}

func parseToken(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	if claims.Role != RoleMember && claims.Role != RoleAdmin {
		return nil, errors.New("unknown role")
	}
	return claims, nil
}

// JWTAuth requires a Bearer token and stores the Actor on the context.
func JWTAuth(secret []byte, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			claims, err := parseToken(secret, strings.TrimSpace(auth[7:]))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			c.Set(actorKey, Actor{MemberID: claims.Subject, Role: claims.Role})

			if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < renewWindow {
				if fresh, err := IssueToken(secret, claims.Subject, claims.Role, ttl); err == nil {
					c.Response().Header().Set("X-New-Token", fresh)
				}
			}
			return next(c)
		}
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok || !a.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (Actor, bool) {
	a, ok := c.Get(actorKey).(Actor)
	return a, ok
}

// WithActor is used by tests that bypass JWTAuth.
func WithActor(c echo.Context, a Actor) { c.Set(actorKey, a) }
