// controllers/reminder.go
package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"barberqueue-backend/services"
	"barberqueue-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReminderSender interface {
	SendDailyReminders(ctx context.Context) (services.ReminderResult, error)
}

type ReminderController struct {
	Reminders ReminderSender
}

// SendReminders runs the reminder scan for tomorrow's appointments. It is meant
// for external schedulers and accepts GET or POST with no body.
func (r *ReminderController) SendReminders(c *gin.Context) {
	result, err := r.Reminders.SendDailyReminders(c.Request.Context())
	if err != nil {
		log.Printf("[reminder] scan failed: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error while sending reminders")
		return
	}

	utils.RespondWithSummary(c, http.StatusOK,
		fmt.Sprintf("Reminders sent for %d of %d pending appointments.", result.Sent, result.Matched))
}
