// Package domain содержит бизнес-сущности и доменные ошибки Storefront.
package domain

import "errors"

// Доменные ошибки каталога, отзывов и пользователей.
// Тексты ошибок на английском — они являются частью публичного API контракта
// и попадают в тело HTTP ответа без изменений.
var (
	// ErrProductNotFound возвращается, когда товар не найден в хранилище.
	ErrProductNotFound = errors.New("Product not found")

	// ErrEmptyProductName возвращается при пустом названии товара.
	ErrEmptyProductName = errors.New("Product name cannot be empty")

	// ErrNegativePrice возвращается при отрицательной цене товара.
	ErrNegativePrice = errors.New("Price cannot be negative")

	// ErrNegativeStock возвращается при отрицательном остатке на складе.
	ErrNegativeStock = errors.New("Stock quantity cannot be negative")

	// ErrInvalidCategory возвращается, если категория не входит в список допустимых.
	ErrInvalidCategory = errors.New("Invalid product category")

	// ErrReviewNotFound возвращается, когда отзыв не найден в хранилище.
	ErrReviewNotFound = errors.New("Review not found")

	// ErrInvalidProductID возвращается при пустом идентификаторе товара у отзыва.
	ErrInvalidProductID = errors.New("Product id is required")

	// ErrInvalidRating возвращается при рейтинге вне диапазона 1..5 или дробном значении.
	ErrInvalidRating = errors.New("Rating must be between 1 and 5")

	// ErrEmptyComment возвращается при пустом тексте отзыва.
	ErrEmptyComment = errors.New("Comment cannot be empty")

	// ErrCommentTooLong возвращается, когда текст отзыва длиннее 1000 символов.
	ErrCommentTooLong = errors.New("Comment cannot exceed 1000 characters")

	// ErrEmptyAuthorName возвращается при пустом имени автора отзыва.
	ErrEmptyAuthorName = errors.New("Author name cannot be empty")

	// ErrAuthorNameTooLong возвращается, когда имя автора длиннее 100 символов.
	ErrAuthorNameTooLong = errors.New("Author name cannot exceed 100 characters")

	// ErrUserNotFound возвращается, когда пользователь не найден в хранилище.
	ErrUserNotFound = errors.New("User not found")

	// ErrEmailExists возвращается при попытке регистрации с уже занятым email.
	ErrEmailExists = errors.New("Email is already registered")

	// ErrInvalidCredentials возвращается при неверном email или пароле.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// ErrInvalidToken возвращается при невалидном или просроченном токене.
	ErrInvalidToken = errors.New("Invalid or expired token")

	// ErrWeakPassword возвращается, если пароль короче 8 символов.
	ErrWeakPassword = errors.New("Password must be at least 8 characters")

	// ErrInvalidEmail возвращается при некорректном формате email.
	ErrInvalidEmail = errors.New("Invalid email format")

	// ErrEmptyName возвращается, если имя пользователя пустое.
	ErrEmptyName = errors.New("Name cannot be empty")

	// ErrAccountLocked возвращается, когда аккаунт временно заблокирован
	// из-за множества неудачных попыток входа.
	ErrAccountLocked = errors.New("Account temporarily locked, try again later")
)

// validationErrors — ошибки, которые означают некорректный ввод вызывающей
// стороны (HTTP 400), в отличие от not-found и инфраструктурных ошибок.
var validationErrors = []error{
	ErrEmptyProductName,
	ErrNegativePrice,
	ErrNegativeStock,
	ErrInvalidCategory,
	ErrInvalidProductID,
	ErrInvalidRating,
	ErrEmptyComment,
	ErrCommentTooLong,
	ErrEmptyAuthorName,
	ErrAuthorNameTooLong,
	ErrWeakPassword,
	ErrInvalidEmail,
	ErrEmptyName,
}

// IsValidation сообщает, является ли ошибка ошибкой валидации входных данных.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound сообщает, является ли ошибка сигналом «сущность отсутствует».
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
