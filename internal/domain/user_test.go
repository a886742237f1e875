package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewUser тестирует создание пользователя с валидацией.
func TestNewUser(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		userName    string
		expectedErr error
	}{
		{
			name:     "валидный пользователь",
			email:    "ivan@example.com",
			userName: "Иван",
		},
		{
			name:        "пустой email",
			email:       "",
			userName:    "Иван",
			expectedErr: ErrInvalidEmail,
		},
		{
			name:        "email без домена",
			email:       "ivan@",
			userName:    "Иван",
			expectedErr: ErrInvalidEmail,
		},
		{
			name:        "email без точки в домене",
			email:       "ivan@example",
			userName:    "Иван",
			expectedErr: ErrInvalidEmail,
		},
		{
			name:        "email с пробелом",
			email:       "iv an@example.com",
			userName:    "Иван",
			expectedErr: ErrInvalidEmail,
		},
		{
			name:        "пустое имя",
			email:       "ivan@example.com",
			userName:    "  ",
			expectedErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.email, tt.userName)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, u)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, u)
			assert.NotEmpty(t, u.ID)
			assert.Equal(t, DefaultRole, u.Role)
			assert.False(t, u.CreatedAt.IsZero())
		})
	}
}

// TestValidatePassword проверяет минимальную длину пароля.
func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword(""), ErrWeakPassword)
	assert.ErrorIs(t, ValidatePassword("1234567"), ErrWeakPassword)
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword("корректный-пароль"))
}

// TestIsValidation проверяет классификацию доменных ошибок.
func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrNegativePrice))
	assert.True(t, IsValidation(ErrInvalidRating))
	assert.False(t, IsValidation(ErrProductNotFound))
	assert.False(t, IsValidation(nil))

	assert.True(t, IsNotFound(ErrProductNotFound))
	assert.True(t, IsNotFound(ErrReviewNotFound))
	assert.True(t, IsNotFound(ErrUserNotFound))
	assert.False(t, IsNotFound(ErrNegativePrice))
}
