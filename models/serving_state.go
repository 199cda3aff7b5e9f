package models

import "time"

// ServingStateID is the primary key of the single serving state record.
const ServingStateID = 1

// ServingState holds the "now serving" pointer and the last ticket handed out
// for ServiceDate. Both counters restart when the service date changes.
// AnnouncedAt moves only when the pointer is advanced; the change trigger keys on it.
type ServingState struct {
	ID          uint       `gorm:"primaryKey;autoIncrement:false" json:"-"`
	NowServing  int        `gorm:"not null;default:0" json:"nowServing"`
	LastTicket  int        `gorm:"not null;default:0" json:"lastTicket"`
	ServiceDate string     `gorm:"type:varchar(10)" json:"serviceDate"`
	AnnouncedAt *time.Time `json:"announcedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
