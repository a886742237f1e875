package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"example.com/storefront/internal/domain"
	"example.com/storefront/internal/repository"
	"example.com/storefront/pkg/jwt"
	"example.com/storefront/pkg/logger"
)

// bcryptCost — стоимость хэширования bcrypt.
// Значение 12 обеспечивает хороший баланс безопасности и производительности.
const bcryptCost = 12

// Blacklist определяет интерфейс для работы с blacklist токенов.
// Позволяет мокать jwt.Blacklist в тестах.
type Blacklist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Check(ctx context.Context, jti string) (bool, error)
}

// JWTManager определяет интерфейс для работы с JWT токенами.
// Позволяет мокать jwt.Manager в тестах.
type JWTManager interface {
	GenerateTokenPair(userID, role string) (*jwt.TokenPair, error)
	ValidateToken(tokenString string) (*jwt.Claims, error)
	ValidateWithBlacklist(ctx context.Context, tokenString string) (*jwt.Claims, error)
	Blacklist() Blacklist
}

// UserService определяет интерфейс бизнес-логики пользователей.
type UserService interface {
	// Register регистрирует нового пользователя.
	Register(ctx context.Context, email, password, name string) (*domain.User, error)

	// Login аутентифицирует пользователя и возвращает токены.
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)

	// Logout инвалидирует токен (добавляет в blacklist).
	Logout(ctx context.Context, accessToken string) error

	// ValidateToken проверяет токен и возвращает claims.
	ValidateToken(ctx context.Context, accessToken string) (*domain.TokenClaims, error)

	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// userService — реализация UserService.
type userService struct {
	users        repository.UserRepository
	jwtManager   JWTManager
	loginLimiter LoginLimiter // nil = без ограничений (для тестов без Redis)
}

// NewUserService создаёт новый сервис пользователей.
// loginLimiter может быть nil — тогда защита от brute-force отключена.
func NewUserService(users repository.UserRepository, jwtManager JWTManager, loginLimiter LoginLimiter) UserService {
	return &userService{
		users:        users,
		jwtManager:   jwtManager,
		loginLimiter: loginLimiter,
	}
}

// Register регистрирует нового пользователя.
func (s *userService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	// Валидация пароля до создания сущности
	if err := domain.ValidatePassword(password); err != nil {
		log.Warn().Str("email", email).Msg("Попытка регистрации со слабым паролем")
		return nil, err
	}

	user, err := domain.NewUser(email, name)
	if err != nil {
		log.Warn().Str("email", email).Err(err).Msg("Ошибка валидации данных пользователя")
		return nil, err
	}

	// Проверяем, не занят ли email
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Ошибка проверки существования email")
		return nil, fmt.Errorf("ошибка проверки email: %w", err)
	}
	if exists {
		log.Warn().Str("email", email).Msg("Попытка регистрации с занятым email")
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("Ошибка хэширования пароля")
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	user.Password = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			// Гонка между ExistsByEmail и Create, uniqueIndex решает
			log.Warn().Str("email", email).Msg("Email занят конкурентной регистрацией")
			return nil, err
		}
		log.Error().Err(err).Str("email", email).Msg("Ошибка создания пользователя")
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", email).
		Msg("Пользователь успешно зарегистрирован")

	return user, nil
}

// Login аутентифицирует пользователя и возвращает токены.
// При включённом LoginLimiter: после 5 неудачных попыток блокирует аккаунт на 15 минут.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	log := logger.FromContext(ctx)

	if s.loginLimiter != nil {
		locked, err := s.loginLimiter.IsLocked(ctx, email)
		if err != nil {
			log.Error().Err(err).Str("email", email).Msg("Ошибка проверки блокировки аккаунта")
			// При ошибке Redis — пропускаем проверку, не блокируем пользователя
		} else if locked {
			log.Warn().Str("email", email).Msg("Попытка входа в заблокированный аккаунт")
			return nil, domain.ErrAccountLocked
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn().Str("email", email).Msg("Попытка входа с несуществующим email")
			// Неудачная попытка фиксируется и для неизвестных email
			s.recordLoginFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		log.Error().Err(err).Str("email", email).Msg("Ошибка получения пользователя")
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Warn().Str("email", email).Str("user_id", user.ID).Msg("Неверный пароль")
		s.recordLoginFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	// Успешный вход — сбрасываем счётчик попыток
	s.resetLoginAttempts(ctx, email)

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Ошибка генерации токенов")
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", email).
		Msg("Пользователь успешно вошёл в систему")

	return &domain.TokenPair{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
	}, nil
}

// recordLoginFailure записывает неудачную попытку входа (если limiter доступен).
func (s *userService) recordLoginFailure(ctx context.Context, email string) {
	if s.loginLimiter == nil {
		return
	}
	if err := s.loginLimiter.RecordFailure(ctx, email); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("email", email).Msg("Ошибка записи неудачной попытки входа")
	}
}

// resetLoginAttempts сбрасывает счётчик попыток после успешного входа.
func (s *userService) resetLoginAttempts(ctx context.Context, email string) {
	if s.loginLimiter == nil {
		return
	}
	if err := s.loginLimiter.ResetAttempts(ctx, email); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("email", email).Msg("Ошибка сброса счётчика попыток")
	}
}

// Logout инвалидирует токен.
func (s *userService) Logout(ctx context.Context, accessToken string) error {
	log := logger.FromContext(ctx)

	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		log.Warn().Err(err).Msg("Попытка logout с невалидным токеном")
		return domain.ErrInvalidToken
	}

	blacklist := s.jwtManager.Blacklist()
	if blacklist == nil {
		log.Warn().Str("user_id", claims.UserID).Msg("Blacklist не настроен, токен не добавлен")
		return nil
	}

	if err := blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Error().Err(err).Str("jti", claims.ID).Msg("Ошибка добавления токена в blacklist")
		return fmt.Errorf("ошибка отзыва токена: %w", err)
	}

	log.Info().
		Str("user_id", claims.UserID).
		Str("jti", claims.ID).
		Msg("Токен успешно отозван")

	return nil
}

// ValidateToken проверяет токен и возвращает claims.
func (s *userService) ValidateToken(ctx context.Context, accessToken string) (*domain.TokenClaims, error) {
	log := logger.FromContext(ctx)

	claims, err := s.jwtManager.ValidateWithBlacklist(ctx, accessToken)
	if err != nil {
		log.Debug().Err(err).Msg("Токен не прошёл валидацию")
		return nil, domain.ErrInvalidToken
	}

	// Email и актуальная роль берутся из БД для полноты данных
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn().Str("user_id", claims.UserID).Msg("Токен валиден, но пользователь не найден")
			return nil, domain.ErrUserNotFound
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Ошибка получения пользователя")
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return &domain.TokenClaims{
		UserID:    claims.UserID,
		Email:     user.Email,
		Role:      user.Role,
		JTI:       claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GetUser возвращает пользователя по ID.
func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Debug().Str("user_id", userID).Msg("Пользователь не найден")
			return nil, err
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Ошибка получения пользователя")
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}
