package domain

import "strings"

// Category — категория товара (value object).
// Значение всегда из фиксированного списка и в нижнем регистре,
// сравнение — обычным ==.
type Category string

// Допустимые категории товаров.
const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
	CategoryToys        Category = "toys"
	CategoryFood        Category = "food"
	CategoryHealth      Category = "health"
	CategoryBeauty      Category = "beauty"
	CategoryOther       Category = "other"
)

// allCategories — закрытый список категорий для валидации.
var allCategories = map[Category]struct{}{
	CategoryElectronics: {},
	CategoryClothing:    {},
	CategoryBooks:       {},
	CategoryHome:        {},
	CategorySports:      {},
	CategoryToys:        {},
	CategoryFood:        {},
	CategoryHealth:      {},
	CategoryBeauty:      {},
	CategoryOther:       {},
}

// NewCategory создаёт категорию из произвольной строки.
// Значение нормализуется к нижнему регистру ("Electronics" -> "electronics").
// Возвращает ErrInvalidCategory для значений вне списка.
func NewCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := allCategories[c]; !ok {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Categories возвращает список всех допустимых категорий.
func Categories() []Category {
	return []Category{
		CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome,
		CategorySports, CategoryToys, CategoryFood, CategoryHealth,
		CategoryBeauty, CategoryOther,
	}
}

// String возвращает строковое значение категории.
func (c Category) String() string {
	return string(c)
}
