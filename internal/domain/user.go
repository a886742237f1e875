package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// emailRegex — регулярное выражение для валидации email.
// Формат local@domain.tld без пробелов.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DefaultRole — роль, назначаемая пользователю при регистрации.
const DefaultRole = "user"

// User представляет пользователя системы.
// Это доменная сущность без зависимостей от инфраструктуры (GORM, JWT).
type User struct {
	ID        string    // Уникальный идентификатор (UUID)
	Email     string    // Email пользователя (уникальный)
	Name      string    // Имя пользователя
	Role      string    // Роль (свободная строка, по умолчанию "user")
	Password  string    // Хеш пароля (bcrypt)
	CreatedAt time.Time // Дата создания аккаунта
	UpdatedAt time.Time // Дата последнего обновления
}

// NewUser создаёт нового пользователя со свежим UUID и ролью по умолчанию.
// Пароль (хеш) устанавливается отдельно после хеширования в сервисе.
func NewUser(email, name string) (*User, error) {
	now := time.Now()
	u := &User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Role:      DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate проверяет корректность полей пользователя.
func (u *User) Validate() error {
	if err := u.ValidateEmail(); err != nil {
		return err
	}
	return u.ValidateName()
}

// ValidateEmail проверяет корректность email.
func (u *User) ValidateEmail() error {
	email := strings.TrimSpace(u.Email)
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateName проверяет, что имя пользователя непустое.
func (u *User) ValidateName() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidatePassword проверяет требования к паролю: минимум 8 символов.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// TokenClaims содержит информацию из валидированного токена.
// Используется для передачи данных между слоями без привязки к pkg/jwt.
type TokenClaims struct {
	UserID    string    // ID пользователя
	Email     string    // Email (опционально)
	Role      string    // Роль пользователя
	JTI       string    // Уникальный идентификатор токена
	IssuedAt  time.Time // Время выдачи токена
	ExpiresAt time.Time // Время истечения токена
}

// TokenPair содержит пару access и refresh токенов.
type TokenPair struct {
	AccessToken  string // JWT access token
	RefreshToken string // JWT refresh token
	ExpiresAt    int64  // Unix timestamp истечения access token
}
