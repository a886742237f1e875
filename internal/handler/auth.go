package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/httputil"
	"example.com/storefront/internal/service"
	"example.com/storefront/pkg/logger"
)

// AuthHandler — обработчик аутентификации.
type AuthHandler struct {
	users service.UserService
}

// NewAuthHandler создаёт новый обработчик аутентификации.
func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// UserResponse — представление пользователя в API. Без пароля.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// userResponse конвертирует доменную сущность в DTO.
func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterRequest — запрос на регистрацию.
type RegisterRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

// LoginRequest — запрос на вход.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// TokenResponse — ответ с парой токенов.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// Register регистрирует нового пользователя.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидный запрос на регистрацию")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	if req.Email == nil || req.Password == nil || req.Name == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingFields})
		return
	}

	user, err := h.users.Register(ctx, *req.Email, *req.Password, *req.Name)
	if err != nil {
		HandleDomainError(c, err, "Register")
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("Пользователь зарегистрирован")

	c.JSON(http.StatusCreated, userResponse(user))
}

// Login аутентифицирует пользователя.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидный запрос на вход")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	if req.Email == nil || req.Password == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingFields})
		return
	}

	pair, err := h.users.Login(ctx, *req.Email, *req.Password)
	if err != nil {
		HandleDomainError(c, err, "Login")
		return
	}

	log.Info().Str("email", *req.Email).Msg("Пользователь вошёл в систему")

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	})
}

// Logout выход из системы.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	token := httputil.ExtractBearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msgMissingToken})
		return
	}

	if err := h.users.Logout(ctx, token); err != nil {
		HandleDomainError(c, err, "Logout")
		return
	}

	log.Info().Msg("Пользователь вышел из системы")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
