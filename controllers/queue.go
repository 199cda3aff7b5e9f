// controllers/queue.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"barberqueue-backend/models"
	"barberqueue-backend/services"
	"barberqueue-backend/utils"

	"github.com/gin-gonic/gin"
)

// QueueAdvancer is what the queue endpoints need from services.QueueService.
type QueueAdvancer interface {
	Advance(ctx context.Context, nowServing int) (services.DispatchResult, error)
	CurrentServing(ctx context.Context) (models.ServingState, error)
}

type QueueController struct {
	Queue QueueAdvancer
}

// AdvanceQueueInput defines the expected JSON structure
type AdvanceQueueInput struct {
	NowServing *int `json:"nowServing" binding:"required"`
}

// AdvanceQueue stores the new "now serving" ticket and alerts the next customers
func (q *QueueController) AdvanceQueue(c *gin.Context) {
	var input AdvanceQueueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Field nowServing (number) is required in the request body")
		return
	}
	if *input.NowServing < 1 {
		utils.RespondWithError(c, http.StatusBadRequest, "Field nowServing must be a positive ticket number")
		return
	}

	result, err := q.Queue.Advance(c.Request.Context(), *input.NowServing)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrServingRegressed):
			utils.RespondWithError(c, http.StatusConflict, "Now serving cannot move backward")
		case errors.Is(err, services.ErrInvalidTicket):
			utils.RespondWithError(c, http.StatusBadRequest, "Field nowServing must be a positive ticket number")
		default:
			log.Printf("[queue] advance to %d failed: %v", *input.NowServing, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal error while advancing the queue")
		}
		return
	}

	if result.Deferred {
		utils.RespondWithSummary(c, http.StatusOK,
			fmt.Sprintf("Now serving %d. Alerts will be dispatched by the queue listener.", result.NowServing))
		return
	}
	utils.RespondWithSummary(c, http.StatusOK,
		fmt.Sprintf("Now serving %d. Alerts sent to %d of %d customers.", result.NowServing, result.Sent, result.Planned))
}

// GetServing returns the current serving state
func (q *QueueController) GetServing(c *gin.Context) {
	state, err := q.Queue.CurrentServing(c.Request.Context())
	if err != nil {
		log.Printf("[queue] load serving state failed: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load serving state")
		return
	}
	c.JSON(http.StatusOK, state)
}
