package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"example.com/storefront/internal/domain"
	"example.com/storefront/pkg/outbox"
)

// EventLog накапливает outbox-записи in-memory backend'а.
// В памяти нет транзакций и воркера, но события не теряются молча:
// они складываются в журнал и доступны через Events().
type EventLog struct {
	mu     sync.Mutex
	events []*outbox.Outbox
}

// NewEventLog создаёт пустой журнал событий.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append добавляет запись в журнал. nil игнорируется.
func (l *EventLog) Append(evt *outbox.Outbox) {
	if evt == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
}

// Events возвращает копию накопленных записей.
func (l *EventLog) Events() []*outbox.Outbox {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*outbox.Outbox, len(l.events))
	copy(out, l.events)
	return out
}

// memoryProductRepository — потокобезопасная in-memory реализация ProductRepository.
// Хранит плоские записи: наружу всегда уходит независимая копия,
// восстановленная через доменный конструктор.
type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.ProductPrimitives
	log      *EventLog
}

// NewMemoryProductRepository создаёт пустой in-memory репозиторий товаров.
func NewMemoryProductRepository(log *EventLog) ProductRepository {
	return &memoryProductRepository{
		products: make(map[string]domain.ProductPrimitives),
		log:      log,
	}
}

// Save создаёт или обновляет товар.
func (r *memoryProductRepository) Save(_ context.Context, product *domain.Product, evt *outbox.Outbox) error {
	r.mu.Lock()
	r.products[product.ID] = product.Primitives()
	r.mu.Unlock()

	r.log.Append(evt)
	return nil
}

// GetByID возвращает копию товара по ID.
func (r *memoryProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	prim, ok := r.products[id]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return domain.ProductFromPrimitives(prim)
}

// List возвращает товары по фильтру с пагинацией, новые первыми.
func (r *memoryProductRepository) List(_ context.Context, filter ProductFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	all := make([]domain.ProductPrimitives, 0, len(r.products))
	for _, prim := range r.products {
		if filter.Category != "" && prim.Category != filter.Category {
			continue
		}
		all = append(all, prim)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	totalCount := int64(len(all))
	page := paginate(len(all), filter.Offset, filter.Limit)

	products := make([]*domain.Product, 0, len(page))
	for _, idx := range page {
		p, err := domain.ProductFromPrimitives(all[idx])
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, totalCount, nil
}

// Delete удаляет товар по ID.
func (r *memoryProductRepository) Delete(_ context.Context, id string, evt *outbox.Outbox) error {
	r.mu.Lock()
	_, ok := r.products[id]
	if ok {
		delete(r.products, id)
	}
	r.mu.Unlock()

	if !ok {
		return domain.ErrProductNotFound
	}
	r.log.Append(evt)
	return nil
}

// memoryReviewRepository — потокобезопасная in-memory реализация ReviewRepository.
type memoryReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]domain.ReviewPrimitives
	log     *EventLog
}

// NewMemoryReviewRepository создаёт пустой in-memory репозиторий отзывов.
func NewMemoryReviewRepository(log *EventLog) ReviewRepository {
	return &memoryReviewRepository{
		reviews: make(map[string]domain.ReviewPrimitives),
		log:     log,
	}
}

// Save создаёт или обновляет отзыв.
func (r *memoryReviewRepository) Save(_ context.Context, review *domain.Review, evt *outbox.Outbox) error {
	r.mu.Lock()
	r.reviews[review.ID] = review.Primitives()
	r.mu.Unlock()

	r.log.Append(evt)
	return nil
}

// GetByID возвращает копию отзыва по ID.
func (r *memoryReviewRepository) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	prim, ok := r.reviews[id]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	return domain.ReviewFromPrimitives(prim)
}

// ListByProductID возвращает отзывы товара с пагинацией, новые первыми.
func (r *memoryReviewRepository) ListByProductID(_ context.Context, productID string, offset, limit int) ([]*domain.Review, int64, error) {
	r.mu.RLock()
	matched := make([]domain.ReviewPrimitives, 0)
	for _, prim := range r.reviews {
		if prim.ProductID == productID {
			matched = append(matched, prim)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	totalCount := int64(len(matched))
	page := paginate(len(matched), offset, limit)

	reviews := make([]*domain.Review, 0, len(page))
	for _, idx := range page {
		rv, err := domain.ReviewFromPrimitives(matched[idx])
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}

	return reviews, totalCount, nil
}

// Delete удаляет отзыв по ID.
func (r *memoryReviewRepository) Delete(_ context.Context, id string, evt *outbox.Outbox) error {
	r.mu.Lock()
	_, ok := r.reviews[id]
	if ok {
		delete(r.reviews, id)
	}
	r.mu.Unlock()

	if !ok {
		return domain.ErrReviewNotFound
	}
	r.log.Append(evt)
	return nil
}

// memoryUserRepository — потокобезопасная in-memory реализация UserRepository.
// Email сравнивается регистронезависимо, как uniqueIndex в MySQL.
type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User // по ID, значения-копии
}

// NewMemoryUserRepository создаёт пустой in-memory репозиторий пользователей.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[string]domain.User),
	}
}

// Create создаёт нового пользователя, отклоняя дубликаты email.
func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrEmailExists
		}
	}

	r.users[user.ID] = *user
	return nil
}

// GetByID возвращает копию пользователя по ID.
func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail возвращает копию пользователя по email.
func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// ExistsByEmail проверяет существование пользователя с заданным email.
func (r *memoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// paginate возвращает индексы страницы [offset, offset+limit) в пределах total.
func paginate(total, offset, limit int) []int {
	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	idx := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		idx = append(idx, i)
	}
	return idx
}
