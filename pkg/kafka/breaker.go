package kafka

import (
	"context"

	"example.com/storefront/pkg/circuitbreaker"
	"example.com/storefront/pkg/logger"
)

// BreakerProducer оборачивает Producer в Circuit Breaker.
// При недоступности брокеров отправка отклоняется мгновенно,
// не накапливая зависшие запросы на каждом событии.
type BreakerProducer struct {
	producer *Producer
	breaker  *circuitbreaker.Breaker
}

// NewBreakerProducer создаёт Producer, защищённый Circuit Breaker.
func NewBreakerProducer(producer *Producer, breaker *circuitbreaker.Breaker) *BreakerProducer {
	return &BreakerProducer{
		producer: producer,
		breaker:  breaker,
	}
}

// Send отправляет сообщение через Circuit Breaker.
func (p *BreakerProducer) Send(ctx context.Context, topic string, key []byte, value []byte) error {
	return p.breaker.Execute(func() error {
		return p.producer.Send(ctx, topic, key, value)
	})
}

// SendWithHeaders отправляет сообщение с headers через Circuit Breaker.
func (p *BreakerProducer) SendWithHeaders(ctx context.Context, topic string, key []byte, value []byte, extraHeaders map[string]string) error {
	return p.breaker.Execute(func() error {
		return p.producer.SendWithHeaders(ctx, topic, key, value, extraHeaders)
	})
}

// SendMessage отправляет подготовленный Message через Circuit Breaker.
func (p *BreakerProducer) SendMessage(ctx context.Context, msg *Message) error {
	return p.breaker.Execute(func() error {
		return p.producer.SendMessage(ctx, msg)
	})
}

// State возвращает текущее состояние breaker в строковом виде.
func (p *BreakerProducer) State() string {
	return p.breaker.State().String()
}

// Close закрывает обёрнутый Producer.
func (p *BreakerProducer) Close() error {
	logger.Debug().Str("breaker", p.breaker.Name()).Msg("Закрытие защищённого Kafka Producer")
	return p.producer.Close()
}
