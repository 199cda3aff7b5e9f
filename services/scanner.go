package services

import (
	"fmt"
	"time"

	"barberqueue-backend/models"
	"barberqueue-backend/utils"
)

// DefaultFallbackProvider names the provider when an appointment has none.
const DefaultFallbackProvider = "your barber"

// ReminderWindow is the half-open interval [Start, End) covering tomorrow.
type ReminderWindow struct {
	Start time.Time
	End   time.Time
}

func (w ReminderWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// TomorrowWindow returns the local day after now in loc.
func TomorrowWindow(now time.Time, loc *time.Location) ReminderWindow {
	return ReminderWindow{
		Start: utils.DayStartAfter(now, loc, 1),
		End:   utils.DayStartAfter(now, loc, 2),
	}
}

// ReminderDecision is one planned appointment reminder. Variables feed the
// approved template; Message is the same text rendered for logs and free-form sends.
type ReminderDecision struct {
	Appointment models.Appointment
	Message     string
	Variables   map[string]string
}

// PlanReminders keeps pending appointments inside the window whose reminder has
// not gone out yet and renders one reminder for each, in input order.
func PlanReminders(appointments []models.Appointment, window ReminderWindow, loc *time.Location, fallbackProvider string) []ReminderDecision {
	if fallbackProvider == "" {
		fallbackProvider = DefaultFallbackProvider
	}

	var decisions []ReminderDecision
	for _, appt := range appointments {
		if appt.ReminderSent || appt.ConfirmationStatus != models.ConfirmationPending {
			continue
		}
		if !window.Contains(appt.ScheduledAt) {
			continue
		}

		provider := appt.ProviderName
		if provider == "" {
			provider = fallbackProvider
		}
		customer := appt.CustomerName
		if customer == "" {
			customer = "there"
		}
		local := appt.ScheduledAt.In(loc)
		vars := map[string]string{
			"1": local.Format("15:04"),
			"2": provider,
			"3": customer,
			"4": local.Format("02/01"),
		}
		decisions = append(decisions, ReminderDecision{
			Appointment: appt,
			Message:     renderReminder(vars),
			Variables:   vars,
		})
	}
	return decisions
}

func renderReminder(vars map[string]string) string {
	return fmt.Sprintf("Hi %s! Reminder: you have an appointment with %s tomorrow (%s) at %s. Reply to confirm or decline.",
		vars["3"], vars["2"], vars["4"], vars["1"])
}
