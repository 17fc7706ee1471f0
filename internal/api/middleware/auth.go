package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/moon90/rms-admin/pkg/auth"
	"github.com/moon90/rms-admin/pkg/logger"
)

type contextKey string

const (
	userIDKey      contextKey = "user_id"
	userNameKey    contextKey = "user_name"
	permissionsKey contextKey = "permissions"
)

// PermissionLoader загружает коды разрешений пользователя
type PermissionLoader interface {
	GetPermissionCodes(ctx context.Context, userID int) ([]string, error)
}

// AuthMiddleware предоставляет middleware для аутентификации и авторизации
type AuthMiddleware struct {
	jwtManager  *auth.JWTManager
	permissions PermissionLoader
	logger      logger.Logger
}

// NewAuthMiddleware создает новый экземпляр AuthMiddleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, permissions PermissionLoader, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:  jwtManager,
		permissions: permissions,
		logger:      logger,
	}
}

// Authenticate проверяет наличие и валидность JWT токена и загружает
// разрешения пользователя в контекст запроса
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(w, "Invalid Authorization header format")
			return
		}
		tokenString := parts[1]

		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			m.logger.Warn("Invalid JWT token", map[string]interface{}{
				"error": err.Error(),
			})
			respondUnauthorized(w, "Invalid or expired token")
			return
		}

		if claims.Type != string(auth.AccessToken) {
			respondUnauthorized(w, "Invalid token type")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, userNameKey, claims.UserName)

		if m.permissions != nil {
			codes, err := m.permissions.GetPermissionCodes(ctx, claims.UserID)
			if err != nil {
				m.logger.Error("Failed to load user permissions", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				respondError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			set := make(map[string]struct{}, len(codes))
			for _, code := range codes {
				set[code] = struct{}{}
			}
			ctx = context.WithValue(ctx, permissionsKey, set)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission проверяет, что у пользователя есть разрешение с
// указанным кодом
func (m *AuthMiddleware) RequirePermission(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			set, ok := r.Context().Value(permissionsKey).(map[string]struct{})
			if !ok {
				respondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			if _, ok := set[code]; !ok {
				respondError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext извлекает ID пользователя из контекста
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// UserNameFromContext извлекает имя пользователя из контекста
func UserNameFromContext(ctx context.Context) (string, bool) {
	userName, ok := ctx.Value(userNameKey).(string)
	return userName, ok
}

// respondUnauthorized отправляет ответ 401 в стандартном конверте
func respondUnauthorized(w http.ResponseWriter, message string) {
	respondError(w, http.StatusUnauthorized, message)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"isSuccess": false,
		"message":   message,
	})
}
