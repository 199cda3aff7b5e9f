package services

import (
	"fmt"

	"barberqueue-backend/models"
)

// DefaultAlertCap is how many customers ahead of the serving pointer get a message.
const DefaultAlertCap = 3

// QueueDecision is one planned queue alert.
type QueueDecision struct {
	Entry       models.WaitlistEntry
	Rank        int
	Message     string
	MarkAlerted bool
}

// PlanQueueAlerts ranks the pool against nowServing and picks a message per rank.
//
// The pool must already be ordered by arrival. Entries at or below nowServing are
// skipped; ranking stops as soon as alertCap decisions exist, so later entries are
// never looked at.
func PlanQueueAlerts(nowServing int, pool []models.WaitlistEntry, alertCap int) []QueueDecision {
	if alertCap < 1 {
		alertCap = DefaultAlertCap
	}

	decisions := make([]QueueDecision, 0, alertCap)
	for _, entry := range pool {
		if len(decisions) == alertCap {
			break
		}
		if !entry.IsActive() || entry.TicketNumber <= nowServing {
			continue
		}

		rank := len(decisions) + 1
		decision := QueueDecision{Entry: entry, Rank: rank}
		if rank == 1 {
			decision.Message = nextUpMessage(nowServing)
			decision.MarkAlerted = true
		} else {
			decision.Message = movedUpMessage(rank)
		}
		decisions = append(decisions, decision)
	}
	return decisions
}

func nextUpMessage(nowServing int) string {
	return fmt.Sprintf("✂️ IT'S ALMOST YOUR TURN! Ticket *%d* is being served. You are NEXT, please head back now.", nowServing)
}

func movedUpMessage(position int) string {
	return fmt.Sprintf("💈 QUEUE UPDATE 💈\nYou moved up! You are now number %d in line.", position)
}
