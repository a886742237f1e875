// Package handler содержит HTTP обработчики для REST API Storefront.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/storefront/internal/domain"
	"example.com/storefront/pkg/logger"
)

// Тексты ошибок, не привязанные к конкретной доменной ошибке.
const (
	msgInvalidBody     = "Invalid request body"
	msgMissingFields   = "Missing required fields"
	msgInternalError   = "Internal server error"
	msgMissingToken    = "Missing authorization token"
	msgProductNotFound = "Product not found"
)

// ErrorResponse — стандартный формат ошибки API.
// Error содержит текст для клиента, Message — опциональная детализация.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HandleDomainError преобразует доменную ошибку в HTTP ответ.
// Используется всеми handlers для единообразной обработки ошибок.
// ВАЖНО: err не должен быть nil — это баг в вызывающем коде.
func HandleDomainError(c *gin.Context, err error, method string) {
	if err == nil {
		logger.Error().Str("method", method).Msg("HandleDomainError вызван с nil ошибкой — баг в коде")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
		return
	}

	log := logger.FromContext(c.Request.Context())

	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrEmailExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})

	default:
		// Инфраструктурная ошибка: текст не раскрывается клиенту
		log.Error().Err(err).Str("method", method).Msg("Внутренняя ошибка")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternalError})
	}
}
