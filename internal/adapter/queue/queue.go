package queue

import (
	"encoding/json"

	"go.uber.org/zap"
)

// MessageQueue is the transport every emitted record goes out on. Observers
// subscribe to reconstruct core state externally without re-querying.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// EmitJSON marshals a record and publishes it. Emission is best-effort: a
// failed publish is logged, never surfaced to the mutating operation that
// produced the record.
func EmitJSON(mq MessageQueue, log *zap.Logger, subject string, record interface{}) {
	data, err := json.Marshal(record)
	if err != nil {
		log.Error("Failed to marshal event record", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := mq.Publish(subject, data); err != nil {
		log.Warn("Failed to publish event record", zap.String("subject", subject), zap.Error(err))
	}
}
