// Package middleware содержит HTTP middleware Storefront.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/httputil"
	"example.com/storefront/pkg/logger"
)

// Ключи данных пользователя в контексте Gin.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextJTI    = "jti"
)

// TokenValidator — интерфейс для валидации токенов.
// Позволяет мокировать UserService в тестах.
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (*domain.TokenClaims, error)
}

// AuthMiddleware — middleware для проверки JWT токенов.
// Проверяет подпись, срок действия и blacklist отозванных токенов.
type AuthMiddleware struct {
	tokenValidator TokenValidator
}

// NewAuthMiddleware создаёт новый middleware для аутентификации.
func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// Handle возвращает Gin handler function для middleware.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)

		token := httputil.ExtractBearerToken(c)
		if token == "" {
			log.Debug().Msg("Отсутствует токен авторизации")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing authorization token",
			})
			return
		}

		claims, err := m.tokenValidator.ValidateToken(ctx, token)
		if err != nil {
			log.Warn().Err(err).Msg("Ошибка валидации токена")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": domain.ErrInvalidToken.Error(),
			})
			return
		}

		// Данные пользователя доступны последующим handlers
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextJTI, claims.JTI)

		log.Debug().
			Str("user_id", claims.UserID).
			Str("jti", claims.JTI).
			Msg("Пользователь аутентифицирован")

		c.Next()
	}
}
