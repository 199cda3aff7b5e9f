package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barberqueue-backend/models"
	"barberqueue-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements every store interface on one Postgres database.
type GormStore struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewGormStore(db *gorm.DB, loc *time.Location) *GormStore {
	if loc == nil {
		loc = time.UTC
	}
	return &GormStore{db: db, loc: loc, now: time.Now}
}

func (s *GormStore) today() string {
	return utils.ServiceDate(s.now(), s.loc)
}

// applyCutover restarts both counters when the stored state belongs to an earlier day.
func (s *GormStore) applyCutover(state *models.ServingState) {
	if today := s.today(); state.ServiceDate != today {
		state.ServiceDate = today
		state.NowServing = 0
		state.LastTicket = 0
	}
}

// lockState loads the serving state row FOR UPDATE and applies the daily cutover.
func (s *GormStore) lockState(tx *gorm.DB) (models.ServingState, error) {
	var state models.ServingState
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&state, models.ServingStateID).Error; err != nil {
		return state, fmt.Errorf("load serving state: %w", err)
	}
	s.applyCutover(&state)
	return state, nil
}

func (s *GormStore) CurrentServing(ctx context.Context) (models.ServingState, error) {
	var state models.ServingState
	if err := s.db.WithContext(ctx).First(&state, models.ServingStateID).Error; err != nil {
		return state, fmt.Errorf("load serving state: %w", err)
	}
	s.applyCutover(&state)
	return state, nil
}

func (s *GormStore) AdvanceServing(ctx context.Context, nowServing int) (models.ServingState, error) {
	var state models.ServingState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if state, err = s.lockState(tx); err != nil {
			return err
		}
		if nowServing < state.NowServing {
			return ErrServingRegressed
		}
		announced := s.now()
		state.NowServing = nowServing
		state.AnnouncedAt = &announced
		return tx.Save(&state).Error
	})
	return state, err
}

func (s *GormStore) ListEligible(ctx context.Context, after int, limit int) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.db.WithContext(ctx).
		Where("service_date = ? AND status IN ? AND ticket_number > ?", s.today(), models.ActiveWaitlistStatuses, after).
		Order("arrival_time ASC, ticket_number ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *GormStore) MarkAlerted(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, models.WaitlistWaiting).
		Update("status", models.WaitlistAlerted).Error
}

func (s *GormStore) IssueTicket(ctx context.Context, customerName, whatsApp string) (models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := s.lockState(tx)
		if err != nil {
			return err
		}
		state.LastTicket++
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		entry = models.WaitlistEntry{
			TicketNumber: state.LastTicket,
			ServiceDate:  state.ServiceDate,
			CustomerName: customerName,
			WhatsApp:     whatsApp,
			Status:       models.WaitlistWaiting,
			ArrivalTime:  s.now(),
		}
		return tx.Create(&entry).Error
	})
	return entry, err
}

func (s *GormStore) ListActive(ctx context.Context) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.db.WithContext(ctx).
		Where("service_date = ? AND status IN ?", s.today(), models.ActiveWaitlistStatuses).
		Order("arrival_time ASC, ticket_number ASC").
		Find(&entries).Error
	return entries, err
}

func (s *GormStore) SetEntryStatus(ctx context.Context, id uuid.UUID, status string) (models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	if status != models.WaitlistServed && status != models.WaitlistRemoved {
		return entry, ErrInvalidStatus
	}
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entry, ErrEntryNotFound
		}
		return entry, err
	}
	entry.Status = status
	if err := s.db.WithContext(ctx).Model(&entry).Update("status", status).Error; err != nil {
		return entry, err
	}
	return entry, nil
}

func (s *GormStore) ListPendingReminders(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Where("confirmation_status = ? AND reminder_sent = ?", models.ConfirmationPending, false).
		Order("scheduled_at ASC").
		Find(&appts).Error
	return appts, err
}

func (s *GormStore) ClaimReminder(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Updates(map[string]interface{}{"reminder_sent": true, "reminder_sent_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return s.db.WithContext(ctx).Create(appt).Error
}

func (s *GormStore) ListAppointments(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Order("scheduled_at ASC").
		Find(&appts).Error
	return appts, err
}

func (s *GormStore) SetConfirmation(ctx context.Context, id uuid.UUID, status string) (models.Appointment, error) {
	var appt models.Appointment
	if status != models.ConfirmationConfirmed && status != models.ConfirmationDeclined {
		return appt, ErrInvalidStatus
	}
	if err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appt, ErrAppointmentNotFound
		}
		return appt, err
	}
	appt.ConfirmationStatus = status
	if err := s.db.WithContext(ctx).Model(&appt).Update("confirmation_status", status).Error; err != nil {
		return appt, err
	}
	return appt, nil
}

func (s *GormStore) RecordNotification(ctx context.Context, entry *models.NotificationLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
