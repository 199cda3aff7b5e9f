// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationQueueAlert = "queue_alert"
	NotificationReminder   = "reminder"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

type NotificationLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind         string    `gorm:"type:varchar(20);index"` // queue_alert, reminder
	ReferenceID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Recipient    string    `gorm:"not null"`
	Message      string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string    `gorm:"type:text"`
	Channel      string    `gorm:"type:varchar(20)"` // whatsapp
	SentAt       time.Time
	CreatedAt    time.Time
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
