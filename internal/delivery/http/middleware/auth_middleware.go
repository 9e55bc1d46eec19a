package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"clinical-data-api/internal/domain/entity"
	"clinical-data-api/pkg/jwt"
	"clinical-data-api/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const (
	DoctorIDKey    contextKey = "doctor_id"
	DoctorEmailKey contextKey = "doctor_email"
	DoctorTypeKey  contextKey = "doctor_type"
	TokenIDKey     contextKey = "token_id"
)

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

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Check if token exists in Redis (not revoked)
		tokenKey := fmt.Sprintf("access_token:%s:%s", claims.DoctorID.String(), claims.TokenID)
		exists, err := m.redisClient.Exists(r.Context(), tokenKey).Result()
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if exists == 0 {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := context.WithValue(r.Context(), DoctorIDKey, claims.DoctorID)
		ctx = context.WithValue(ctx, DoctorEmailKey, claims.Email)
		ctx = context.WithValue(ctx, DoctorTypeKey, entity.DoctorType(claims.DoctorType))
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDoctorIDFromContext extracts the authenticated doctor's ID from context
func GetDoctorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	doctorID, ok := ctx.Value(DoctorIDKey).(uuid.UUID)
	return doctorID, ok
}

// GetDoctorEmailFromContext extracts the authenticated doctor's email from context
func GetDoctorEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(DoctorEmailKey).(string)
	return email, ok
}

// GetDoctorTypeFromContext extracts the authenticated doctor's role from context
func GetDoctorTypeFromContext(ctx context.Context) (entity.DoctorType, bool) {
	doctorType, ok := ctx.Value(DoctorTypeKey).(entity.DoctorType)
	return doctorType, ok
}

// GetTokenIDFromContext extracts the access token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// WithIdentity returns a context carrying the given doctor identity.
// Used by tests and internal callers that bypass the HTTP middleware.
func WithIdentity(ctx context.Context, doctorID uuid.UUID, doctorType entity.DoctorType) context.Context {
	ctx = context.WithValue(ctx, DoctorIDKey, doctorID)
	return context.WithValue(ctx, DoctorTypeKey, doctorType)
}
