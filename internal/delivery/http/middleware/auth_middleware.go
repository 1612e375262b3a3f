package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/pkg/jwt"
	"clinic-scheduler/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const staffKey contextKey = "staff"

// Staff is the authenticated clinic user behind a request.
type Staff struct {
	UserID   uuid.UUID
	Email    string
	RoleID   int
	RoleName string
	TokenID  string
}

// WithStaff stores s in ctx and records the user as the audit actor.
func WithStaff(ctx context.Context, s Staff) context.Context {
	ctx = context.WithValue(ctx, staffKey, s)
	return service.WithActor(ctx, s.UserID)
}

// StaffFromContext returns the staff member set by Authenticate.
func StaffFromContext(ctx context.Context) (Staff, bool) {
	s, ok := ctx.Value(staffKey).(Staff)
	return s, ok
}

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" || strings.Contains(tokenString, " ") {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}
		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Tokens minted for a role the clinic no longer has grant nothing
		roleName, ok := entity.RoleName(claims.RoleID)
		if !ok {
			response.Forbidden(w, "Unknown staff role")
			return
		}

		// Logout deletes the key, so a missing key means a revoked token
		exists, err := m.redisClient.Exists(r.Context(), jwt.RevocationKey(jwt.AccessToken, claims.UserID, claims.TokenID)).Result()
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if exists == 0 {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := WithStaff(r.Context(), Staff{
			UserID:   claims.UserID,
			Email:    claims.Email,
			RoleID:   claims.RoleID,
			RoleName: roleName,
			TokenID:  claims.TokenID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
