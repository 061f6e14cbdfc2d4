package queue

import (
	"sync"

	"go.uber.org/zap"
)

// MemoryQueue is an in-process MessageQueue for single-node deployments and
// tests. Delivery is synchronous and in publish order.
type MemoryQueue struct {
	mu          sync.RWMutex
	subscribers map[string][]func(data []byte) error
	log         *zap.Logger
}

func NewMemoryQueue(log *zap.Logger) MessageQueue {
	return &MemoryQueue{
		subscribers: make(map[string][]func(data []byte) error),
		log:         log,
	}
}

func (q *MemoryQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	handlers := q.subscribers[subject]
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(data); err != nil {
			q.log.Error("Error processing in-memory message", zap.String("subject", subject), zap.Error(err))
		}
	}
	return nil
}

func (q *MemoryQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subscribers[subject] = append(q.subscribers[subject], handler)
	return nil
}

func (q *MemoryQueue) Close() error {
	return nil
}
