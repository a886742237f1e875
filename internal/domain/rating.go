package domain

import "math"

// Границы допустимого рейтинга отзыва.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating — оценка товара в отзыве (value object).
// Всегда целое число от 1 до 5, сравнение — обычным ==.
type Rating int

// NewRating создаёт рейтинг из целого числа.
// Возвращает ErrInvalidRating для значений вне диапазона 1..5.
func NewRating(value int) (Rating, error) {
	if value < MinRating || value > MaxRating {
		return 0, ErrInvalidRating
	}
	return Rating(value), nil
}

// NewRatingFromNumber создаёт рейтинг из числа JSON.
// Дробные значения (например 3.5) отклоняются — рейтинг всегда целый.
func NewRatingFromNumber(value float64) (Rating, error) {
	if value != math.Trunc(value) {
		return 0, ErrInvalidRating
	}
	return NewRating(int(value))
}

// Int возвращает числовое значение рейтинга.
func (r Rating) Int() int {
	return int(r)
}
