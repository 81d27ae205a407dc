package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	sessions  ports.SessionStore
	log       logrus.FieldLogger
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, sessions ports.SessionStore, log logrus.FieldLogger) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		sessions:  sessions,
		log:       log,
	}
}

type contextKey string

const claimsKey contextKey = "claims"

// WithClaims stores the caller's claims on the context.
func WithClaims(ctx context.Context, claims domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by RequireRole.
func ClaimsFromContext(ctx context.Context) (domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(domain.Claims)
	return claims, ok
}

// RequireRole authenticates the bearer token, checks that its session has
// not been revoked and that the caller holds one of roles.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := m.log.WithField("path", r.URL.Path)

		tokenString, ok := bearerToken(r)
		if !ok {
			log.Debug("missing or malformed authorization header")
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		claims, err := m.parse(tokenString)
		if err != nil {
			log.WithError(err).Debug("token rejected")
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		active, err := m.sessions.SessionActive(r.Context(), claims.SessionID)
		if err != nil {
			log.WithError(err).Error("session lookup failed")
			writeError(w, http.StatusServiceUnavailable, "session store unavailable")
			return
		}
		if !active {
			writeError(w, http.StatusUnauthorized, "session expired or logged out")
			return
		}

		if !slices.Contains(roles, claims.Role) {
			log.WithFields(logrus.Fields{
				"user_id": claims.UserID,
				"role":    claims.Role,
			}).Warn("role not allowed")
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

// bearerToken reads the token from the Authorization header or, for
// WebSocket upgrades that cannot set headers, the access_token query
// parameter.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := r.URL.Query().Get("access_token")
		return token, token != ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) parse(tokenString string) (domain.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	})
	if err != nil {
		return domain.Claims{}, err
	}
	if !token.Valid {
		return domain.Claims{}, jwt.ErrTokenInvalidClaims
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Claims{}, jwt.ErrTokenInvalidClaims
	}
	userID, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	sessionID, _ := mc["jti"].(string)
	if userID == "" || role == "" || sessionID == "" {
		return domain.Claims{}, jwt.ErrTokenInvalidClaims
	}

	claims := domain.Claims{UserID: userID, Role: domain.Role(role), SessionID: sessionID}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
