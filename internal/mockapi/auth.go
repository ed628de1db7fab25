package mockapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/acmello/campusctl/internal/edu"
)

const tokenIssuer = "campus-devserver"

// Claims is the bearer token payload the dev server issues.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func newAccessToken(secret string, ttl time.Duration, user *edu.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

type contextKey int

const userContextKey contextKey = iota

func contextWithUser(ctx context.Context, user *edu.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func userFromContext(ctx context.Context) *edu.User {
	user, _ := ctx.Value(userContextKey).(*edu.User)
	return user
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// authMiddleware validates the bearer token, resolves the user and injects it
// into the request context. When roles are given, the user's role must match
// one of them.
func (s *Server) authMiddleware(roles ...edu.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				s.metrics.IncAuthFailure("request", "missing_token")
				writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			claims, err := parseToken(s.jwtSecret, token)
			if err != nil {
				s.metrics.IncAuthFailure("request", "invalid_token")
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := s.store.UserByID(claims.UserID)
			if err != nil {
				s.metrics.IncAuthFailure("request", "unknown_user")
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if len(roles) > 0 {
				allowed := false
				for _, role := range roles {
					if user.Role == role {
						allowed = true
						break
					}
				}
				if !allowed {
					writeError(w, http.StatusForbidden, "insufficient role")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), user)))
		})
	}
}
