package controllers

import (
	"errors"
	"net/http"
	"time"

	"barberqueue-backend/models"
	"barberqueue-backend/services"
	"barberqueue-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentController struct {
	Store    services.AppointmentStore
	Location *time.Location
	Now      func() time.Time
}

// CreateAppointmentInput defines the expected JSON structure for booking
type CreateAppointmentInput struct {
	CustomerName string    `json:"customerName" binding:"required"`
	WhatsApp     string    `json:"whatsapp" binding:"required"`
	ProviderName string    `json:"providerName"`
	ScheduledAt  time.Time `json:"scheduledAt" binding:"required"`
}

// UpdateConfirmationInput defines the expected JSON structure for a customer's answer
type UpdateConfirmationInput struct {
	Status string `json:"status" binding:"required,oneof=confirmed declined"`
}

func (a *AppointmentController) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *AppointmentController) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.UTC
}

// CreateAppointment books a pending appointment
func (a *AppointmentController) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.WhatsApp) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	appt := models.Appointment{
		CustomerName:       input.CustomerName,
		WhatsApp:           utils.NormalizePhone(input.WhatsApp),
		ProviderName:       input.ProviderName,
		ScheduledAt:        input.ScheduledAt,
		ConfirmationStatus: models.ConfirmationPending,
	}
	if err := a.Store.CreateAppointment(c.Request.Context(), &appt); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appt)
}

// ListAppointments retrieves one local day of appointments, tomorrow by default
func (a *AppointmentController) ListAppointments(c *gin.Context) {
	loc := a.location()
	start := utils.DayStartAfter(a.now(), loc, 1)
	if raw := c.Query("date"); raw != "" {
		day, err := time.ParseInLocation(utils.ServiceDateLayout, raw, loc)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		start = day
	}
	end := utils.DayStartAfter(start, loc, 1)

	appts, err := a.Store.ListAppointments(c.Request.Context(), start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appts)
}

// UpdateConfirmation records whether the customer confirmed or declined
func (a *AppointmentController) UpdateConfirmation(c *gin.Context) {
	apptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateConfirmationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := a.Store.SetConfirmation(c.Request.Context(), apptID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAppointmentNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		case errors.Is(err, services.ErrInvalidStatus):
			utils.RespondWithError(c, http.StatusBadRequest, "Status must be confirmed or declined")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appt)
}
