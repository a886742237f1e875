package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Лимиты полей отзыва.
const (
	maxCommentLength    = 1000
	maxAuthorNameLength = 100
)

// Review — отзыв на товар.
// Связь с товаром держится через ProductID; каскадное удаление отзывов
// при удалении товара не выполняется (ответственность вызывающей стороны).
type Review struct {
	ID         string    // Уникальный идентификатор (UUID)
	ProductID  string    // ID товара, к которому относится отзыв
	Rating     Rating    // Оценка 1..5
	Comment    string    // Текст отзыва, непустой, до 1000 символов
	AuthorName string    // Имя автора, непустое, до 100 символов
	CreatedAt  time.Time // Дата создания
	UpdatedAt  time.Time // Дата последнего изменения
}

// ReviewPrimitives — плоское представление отзыва для границ системы.
type ReviewPrimitives struct {
	ID         string
	ProductID  string
	Rating     int
	Comment    string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReview создаёт новый отзыв со свежим UUID и текущими timestamps.
func NewReview(productID string, rating Rating, comment, authorName string) (*Review, error) {
	now := time.Now()
	r := &Review{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Rating:     rating,
		Comment:    comment,
		AuthorName: authorName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// ReviewFromPrimitives восстанавливает отзыв из недоверенной плоской записи,
// заново выполняя всю валидацию (рейтинг проходит через NewRating).
func ReviewFromPrimitives(prim ReviewPrimitives) (*Review, error) {
	rating, err := NewRating(prim.Rating)
	if err != nil {
		return nil, err
	}

	r := &Review{
		ID:         prim.ID,
		ProductID:  prim.ProductID,
		Rating:     rating,
		Comment:    prim.Comment,
		AuthorName: prim.AuthorName,
		CreatedAt:  prim.CreatedAt,
		UpdatedAt:  prim.UpdatedAt,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Primitives возвращает плоское представление отзыва.
func (r *Review) Primitives() ReviewPrimitives {
	return ReviewPrimitives{
		ID:         r.ID,
		ProductID:  r.ProductID,
		Rating:     r.Rating.Int(),
		Comment:    r.Comment,
		AuthorName: r.AuthorName,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Validate проверяет все инварианты отзыва.
func (r *Review) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return ErrInvalidProductID
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	if err := r.validateComment(r.Comment); err != nil {
		return err
	}
	return r.validateAuthorName(r.AuthorName)
}

// validateComment проверяет текст отзыва.
func (r *Review) validateComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// validateAuthorName проверяет имя автора.
func (r *Review) validateAuthorName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyAuthorName
	}
	if utf8.RuneCountInString(name) > maxAuthorNameLength {
		return ErrAuthorNameTooLong
	}
	return nil
}

// UpdateRating меняет оценку отзыва. Значение вне 1..5 отклоняется,
// прежний рейтинг при этом сохраняется.
func (r *Review) UpdateRating(value int) error {
	rating, err := NewRating(value)
	if err != nil {
		return err
	}
	r.Rating = rating
	r.touch()
	return nil
}

// UpdateComment меняет текст отзыва.
func (r *Review) UpdateComment(comment string) error {
	if err := r.validateComment(comment); err != nil {
		return err
	}
	r.Comment = comment
	r.touch()
	return nil
}

// touch обновляет метку последнего изменения.
func (r *Review) touch() {
	r.UpdatedAt = time.Now()
}
