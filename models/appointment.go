package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConfirmationPending   = "pending"
	ConfirmationConfirmed = "confirmed"
	ConfirmationDeclined  = "declined"
)

type Appointment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerName string    `gorm:"not null" json:"customerName"`
	WhatsApp     string    `gorm:"not null" json:"whatsapp"`
	ProviderName string    `json:"providerName"`

	ScheduledAt        time.Time `gorm:"not null;index" json:"scheduledAt"`
	ConfirmationStatus string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"confirmationStatus"`

	ReminderSent   bool       `gorm:"not null;default:false" json:"reminderSent"`
	ReminderSentAt *time.Time `json:"reminderSentAt"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ConfirmationStatus == "" {
		a.ConfirmationStatus = ConfirmationPending
	}
	return
}
