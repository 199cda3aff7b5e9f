package controllers

import (
	"errors"
	"net/http"

	"barberqueue-backend/services"
	"barberqueue-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistController struct {
	Store services.WaitlistStore
}

// JoinWaitlistInput defines the expected JSON structure for a check-in
type JoinWaitlistInput struct {
	CustomerName string `json:"customerName"`
	WhatsApp     string `json:"whatsapp" binding:"required"`
}

// UpdateWaitlistInput defines the expected JSON structure for closing an entry
type UpdateWaitlistInput struct {
	Status string `json:"status" binding:"required,oneof=served removed"`
}

// JoinWaitlist issues the next ticket number of the day
func (w *WaitlistController) JoinWaitlist(c *gin.Context) {
	var input JoinWaitlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate phone format
	if !utils.ValidatePhone(input.WhatsApp) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	entry, err := w.Store.IssueTicket(c.Request.Context(), input.CustomerName, utils.NormalizePhone(input.WhatsApp))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to issue ticket")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListWaitlist retrieves today's waiting and alerted customers in arrival order
func (w *WaitlistController) ListWaitlist(c *gin.Context) {
	entries, err := w.Store.ListActive(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve waitlist")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// UpdateWaitlistStatus marks an entry served or removed
func (w *WaitlistController) UpdateWaitlistStatus(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid waitlist entry ID format")
		return
	}

	var input UpdateWaitlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry, err := w.Store.SetEntryStatus(c.Request.Context(), entryID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEntryNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Waitlist entry not found")
		case errors.Is(err, services.ErrInvalidStatus):
			utils.RespondWithError(c, http.StatusBadRequest, "Status must be served or removed")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}
