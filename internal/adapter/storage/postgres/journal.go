package postgres

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/portalenergy/chargehub/internal/adapter/queue"
	"github.com/portalenergy/chargehub/internal/domain"
	"github.com/portalenergy/chargehub/internal/observability/telemetry"
)

// JournalEntry is one persisted event record. Append-only: rows are never
// updated or deleted.
type JournalEntry struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement"`
	EventID   string         `gorm:"size:36;uniqueIndex"`
	Subject   string         `gorm:"size:64;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (JournalEntry) TableName() string {
	return "event_journal"
}

// Journal subscribes to every record subject and appends each record to the
// event_journal table.
type Journal struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewJournal(db *gorm.DB, log *zap.Logger) (*Journal, error) {
	if err := db.AutoMigrate(&JournalEntry{}); err != nil {
		return nil, err
	}
	return &Journal{db: db, log: log}, nil
}

var journalSubjects = []string{
	domain.SubjectStationAdded,
	domain.SubjectStationStateChanged,
	domain.SubjectBootNotification,
	domain.SubjectHeartbeat,
	domain.SubjectStatusNotification,
	domain.SubjectTariffAdded,
	domain.SubjectRemoteStart,
	domain.SubjectRemoteStop,
	domain.SubjectTransactionStarted,
	domain.SubjectTransactionRejected,
	domain.SubjectTransactionCanceled,
	domain.SubjectTransactionStopped,
	domain.SubjectMeterValues,
}

// Attach wires the journal to the queue as a passive observer.
func (j *Journal) Attach(mq queue.MessageQueue) error {
	for _, subject := range journalSubjects {
		subject := subject
		err := mq.Subscribe(subject, func(data []byte) error {
			return j.append(subject, data)
		})
		if err != nil {
			return err
		}
	}
	j.log.Info("Event journal attached", zap.Int("subjects", len(journalSubjects)))
	return nil
}

func (j *Journal) append(subject string, data []byte) error {
	var meta domain.EventMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}

	entry := JournalEntry{
		EventID: meta.EventID,
		Subject: subject,
		Payload: datatypes.JSON(data),
	}
	if err := j.db.Create(&entry).Error; err != nil {
		return err
	}

	telemetry.JournalWrites.WithLabelValues(subject).Inc()
	return nil
}

// Replay streams the journal in append order, oldest first.
func (j *Journal) Replay(fn func(subject string, payload []byte) error) error {
	var entries []JournalEntry
	if err := j.db.Order("id asc").Find(&entries).Error; err != nil {
		return err
	}
	for _, e := range entries {
		if err := fn(e.Subject, e.Payload); err != nil {
			return err
		}
	}
	return nil
}
