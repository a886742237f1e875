package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// Backend задаёт тип хранилища.
const (
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Stores объединяет репозитории всех сущностей одного backend'а.
type Stores struct {
	Products ProductRepository
	Reviews  ReviewRepository
	Users    UserRepository

	// EventLog заполнен только для memory backend'а:
	// MySQL пишет события в таблицу outbox.
	EventLog *EventLog
}

// NewStores создаёт репозитории для выбранного backend'а.
// Неизвестный backend — ошибка конфигурации, тихого fallback'а на память нет.
func NewStores(backend string, db *gorm.DB) (*Stores, error) {
	switch backend {
	case BackendMySQL:
		if db == nil {
			return nil, fmt.Errorf("backend %q требует подключения к БД", backend)
		}
		return &Stores{
			Products: NewProductRepository(db),
			Reviews:  NewReviewRepository(db),
			Users:    NewUserRepository(db),
		}, nil

	case BackendMemory:
		log := NewEventLog()
		return &Stores{
			Products: NewMemoryProductRepository(log),
			Reviews:  NewMemoryReviewRepository(log),
			Users:    NewMemoryUserRepository(),
			EventLog: log,
		}, nil

	default:
		return nil, fmt.Errorf("неизвестный storage backend: %q (ожидается mysql или memory)", backend)
	}
}
