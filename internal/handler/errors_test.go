package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"example.com/storefront/internal/domain"
)

// TestHandleDomainError проверяет маппинг доменных ошибок на HTTP статусы.
func TestHandleDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "товар не найден",
			err:            domain.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Product not found"}`,
		},
		{
			name:           "отзыв не найден",
			err:            domain.ErrReviewNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Review not found"}`,
		},
		{
			name:           "невалидный рейтинг",
			err:            domain.ErrInvalidRating,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Rating must be between 1 and 5"}`,
		},
		{
			name:           "отрицательный остаток",
			err:            domain.ErrNegativeStock,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Stock quantity cannot be negative"}`,
		},
		{
			name:           "email занят",
			err:            domain.ErrEmailExists,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "неверные учётные данные",
			err:            domain.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"Invalid credentials"}`,
		},
		{
			name:           "невалидный токен",
			err:            domain.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "аккаунт заблокирован",
			err:            domain.ErrAccountLocked,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "обёрнутая доменная ошибка",
			err:            errors.Join(errors.New("контекст операции"), domain.ErrProductNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "инфраструктурная ошибка не раскрывается",
			err:            errors.New("dial tcp 10.0.0.5:3306: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal server error"}`,
		},
		{
			name:           "nil ошибка — защита от бага",
			err:            nil,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleDomainError(c, tt.err, "TestMethod")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}

	t.Run("детали инфраструктурной ошибки не попадают в ответ", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleDomainError(c, errors.New("secret internal detail"), "TestMethod")

		assert.NotContains(t, w.Body.String(), "secret internal detail")
	})
}
