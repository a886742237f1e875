// Package domain содержит unit тесты для доменных сущностей каталога.
package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewProduct тестирует создание товара с полной валидацией.
func TestNewProduct(t *testing.T) {
	tests := []struct {
		name          string
		productName   string
		price         float64
		category      Category
		stockQuantity int
		expectedErr   error
	}{
		{
			name:          "валидный товар",
			productName:   "Phone",
			price:         999.99,
			category:      CategoryElectronics,
			stockQuantity: 5,
			expectedErr:   nil,
		},
		{
			name:          "нулевая цена допустима",
			productName:   "Бесплатный образец",
			price:         0,
			category:      CategoryFood,
			stockQuantity: 1,
			expectedErr:   nil,
		},
		{
			name:          "нулевой остаток допустим",
			productName:   "Распроданный товар",
			price:         10,
			category:      CategoryBooks,
			stockQuantity: 0,
			expectedErr:   nil,
		},
		{
			name:          "пустое название",
			productName:   "",
			price:         10,
			category:      CategoryBooks,
			stockQuantity: 1,
			expectedErr:   ErrEmptyProductName,
		},
		{
			name:          "название из пробелов",
			productName:   "   ",
			price:         10,
			category:      CategoryBooks,
			stockQuantity: 1,
			expectedErr:   ErrEmptyProductName,
		},
		{
			name:          "отрицательная цена",
			productName:   "Phone",
			price:         -1,
			category:      CategoryElectronics,
			stockQuantity: 1,
			expectedErr:   ErrNegativePrice,
		},
		{
			name:          "отрицательный остаток",
			productName:   "Phone",
			price:         10,
			category:      CategoryElectronics,
			stockQuantity: -1,
			expectedErr:   ErrNegativeStock,
		},
		{
			name:          "несуществующая категория",
			productName:   "Phone",
			price:         10,
			category:      Category("gadgets"),
			stockQuantity: 1,
			expectedErr:   ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.productName, "описание", tt.price, tt.category, tt.stockQuantity)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, p)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, p)
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, tt.price, p.Price)
			assert.Equal(t, tt.stockQuantity, p.StockQuantity)
			assert.False(t, p.CreatedAt.IsZero())
			assert.Equal(t, p.CreatedAt, p.UpdatedAt)
		})
	}
}

// TestProduct_InStock проверяет, что наличие строго вычисляется из остатка.
func TestProduct_InStock(t *testing.T) {
	p, err := NewProduct("Phone", "", 999.99, CategoryElectronics, 5)
	require.NoError(t, err)
	assert.True(t, p.InStock())

	require.NoError(t, p.UpdateStock(0))
	assert.False(t, p.InStock())

	require.NoError(t, p.UpdateStock(1))
	assert.True(t, p.InStock())
}

// TestProduct_UpdateStock проверяет, что невалидный остаток отклоняется
// без частичного изменения состояния.
func TestProduct_UpdateStock(t *testing.T) {
	p, err := NewProduct("Phone", "", 999.99, CategoryElectronics, 5)
	require.NoError(t, err)
	updatedBefore := p.UpdatedAt

	err = p.UpdateStock(-1)
	assert.ErrorIs(t, err, ErrNegativeStock)
	assert.EqualError(t, err, "Stock quantity cannot be negative")

	// Состояние не изменилось после отклонённой мутации
	assert.Equal(t, 5, p.StockQuantity)
	assert.True(t, p.InStock())
	assert.Equal(t, updatedBefore, p.UpdatedAt)

	require.NoError(t, p.UpdateStock(7))
	assert.Equal(t, 7, p.StockQuantity)
}

// TestProduct_UpdatePrice проверяет валидацию цены в мутаторе.
func TestProduct_UpdatePrice(t *testing.T) {
	p, err := NewProduct("Phone", "", 100, CategoryElectronics, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, p.UpdatePrice(-0.01), ErrNegativePrice)
	assert.Equal(t, 100.0, p.Price)

	require.NoError(t, p.UpdatePrice(0))
	assert.Equal(t, 0.0, p.Price)
}

// TestProduct_UpdateName проверяет валидацию названия в мутаторе.
func TestProduct_UpdateName(t *testing.T) {
	p, err := NewProduct("Phone", "", 100, CategoryElectronics, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, p.UpdateName("  "), ErrEmptyProductName)
	assert.Equal(t, "Phone", p.Name)

	require.NoError(t, p.UpdateName("Smartphone"))
	assert.Equal(t, "Smartphone", p.Name)
}

// TestProduct_Primitives проверяет плоское представление товара.
func TestProduct_Primitives(t *testing.T) {
	p := &Product{
		ID:            "1",
		Name:          "Phone",
		Price:         999.99,
		Category:      CategoryElectronics,
		StockQuantity: 5,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, p.Validate())

	prim := p.Primitives()
	assert.Equal(t, "1", prim.ID)
	assert.Equal(t, "Phone", prim.Name)
	assert.Equal(t, 999.99, prim.Price)
	assert.Equal(t, "electronics", prim.Category)
	assert.True(t, prim.InStock)
	assert.Equal(t, 5, prim.StockQuantity)
}

// TestProductFromPrimitives проверяет восстановление с повторной валидацией.
func TestProductFromPrimitives(t *testing.T) {
	t.Run("round-trip сохраняет состояние", func(t *testing.T) {
		original, err := NewProduct("Phone", "флагман", 999.99, CategoryElectronics, 5)
		require.NoError(t, err)

		restored, err := ProductFromPrimitives(original.Primitives())
		require.NoError(t, err)

		assert.Equal(t, original.Primitives(), restored.Primitives())
	})

	t.Run("категория нормализуется к нижнему регистру", func(t *testing.T) {
		p, err := ProductFromPrimitives(ProductPrimitives{
			ID:            "1",
			Name:          "Phone",
			Price:         1,
			Category:      "Electronics",
			StockQuantity: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, CategoryElectronics, p.Category)
	})

	t.Run("поле InStock входной записи игнорируется", func(t *testing.T) {
		p, err := ProductFromPrimitives(ProductPrimitives{
			ID:            "1",
			Name:          "Phone",
			Price:         1,
			Category:      "electronics",
			InStock:       true, // противоречит нулевому остатку
			StockQuantity: 0,
		})
		require.NoError(t, err)
		assert.False(t, p.InStock())
		assert.False(t, p.Primitives().InStock)
	})

	t.Run("невалидная запись отклоняется", func(t *testing.T) {
		_, err := ProductFromPrimitives(ProductPrimitives{
			ID:            "1",
			Name:          "Phone",
			Price:         -5,
			Category:      "electronics",
			StockQuantity: 1,
		})
		assert.ErrorIs(t, err, ErrNegativePrice)
	})
}

// TestNewCategory тестирует value object категории.
func TestNewCategory(t *testing.T) {
	t.Run("все категории из списка принимаются регистронезависимо", func(t *testing.T) {
		for _, c := range Categories() {
			lower, err := NewCategory(c.String())
			require.NoError(t, err)
			assert.Equal(t, c, lower)

			upper, err := NewCategory(strings.ToUpper(c.String()))
			require.NoError(t, err)
			assert.Equal(t, c, upper)
		}
	})

	t.Run("значение вне списка отклоняется", func(t *testing.T) {
		for _, raw := range []string{"", "gadgets", "ELECTRO", "электроника"} {
			_, err := NewCategory(raw)
			assert.ErrorIs(t, err, ErrInvalidCategory, "категория %q", raw)
		}
	})

	t.Run("категорий ровно десять", func(t *testing.T) {
		assert.Len(t, Categories(), 10)
	})
}
