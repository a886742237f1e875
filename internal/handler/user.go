package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/storefront/internal/middleware"
	"example.com/storefront/internal/service"
)

// UserHandler — обработчик профиля пользователя.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler создаёт новый обработчик пользователей.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe возвращает профиль текущего пользователя.
// Требует валидный токен: user_id кладёт в контекст AuthMiddleware.
// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msgMissingToken})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		HandleDomainError(c, err, "GetMe")
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}
