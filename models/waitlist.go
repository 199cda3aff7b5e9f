package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WaitlistWaiting = "waiting"
	WaitlistAlerted = "alerted"
	WaitlistServed  = "served"
	WaitlistRemoved = "removed"
)

// ActiveWaitlistStatuses are the statuses that keep an entry in the ranking pool.
var ActiveWaitlistStatuses = []string{WaitlistWaiting, WaitlistAlerted}

type WaitlistEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TicketNumber int       `gorm:"not null;uniqueIndex:idx_waitlist_day_ticket,priority:2" json:"ticketNumber"`
	ServiceDate  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_waitlist_day_ticket,priority:1" json:"serviceDate"`

	CustomerName string    `json:"customerName"`
	WhatsApp     string    `gorm:"not null" json:"whatsapp"`
	Status       string    `gorm:"type:varchar(20);not null;default:'waiting';index:idx_waitlist_status_arrival,priority:1" json:"status"`
	ArrivalTime  time.Time `gorm:"not null;index:idx_waitlist_status_arrival,priority:2" json:"arrivalTime"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w *WaitlistEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.ArrivalTime.IsZero() {
		w.ArrivalTime = time.Now()
	}
	return
}

// IsActive reports whether the entry may still be ranked for a queue alert.
func (w WaitlistEntry) IsActive() bool {
	return w.Status == WaitlistWaiting || w.Status == WaitlistAlerted
}
