package routes

import (
	"net/http"
	"time"

	"barberqueue-backend/config"
	"barberqueue-backend/controllers"
	"barberqueue-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Queue        *controllers.QueueController
	Reminders    *controllers.ReminderController
	Waitlist     *controllers.WaitlistController
	Appointments *controllers.AppointmentController

	// Board serves the live "now serving" feed; nil disables it.
	Board       http.Handler
	CORSOrigins []string
	// SlowRequest is the latency above which a request is flagged; zero uses the default.
	SlowRequest time.Duration
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.HandleMethodNotAllowed = true

	if len(h.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  h.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
		}))
	}

	r.Use(config.PerformanceLogger(h.SlowRequest))

	r.NoMethod(func(c *gin.Context) {
		utils.RespondWithError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	})

	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondWithSummary(c, http.StatusOK, "ok")
	})

	if h.Board != nil {
		r.Any("/realtime/*path", gin.WrapH(h.Board))
	}

	api := r.Group("/api")
	{
		// Queue routes
		queue := api.Group("/queue")
		{
			queue.GET("", h.Queue.GetServing)
			queue.POST("/advance", h.Queue.AdvanceQueue)
		}

		// Reminder routes
		reminders := api.Group("/reminders")
		{
			reminders.GET("/send", h.Reminders.SendReminders)
			reminders.POST("/send", h.Reminders.SendReminders)
		}

		// Waitlist routes
		waitlist := api.Group("/waitlist")
		{
			waitlist.POST("", h.Waitlist.JoinWaitlist)
			waitlist.GET("", h.Waitlist.ListWaitlist)
			waitlist.PATCH("/:id", h.Waitlist.UpdateWaitlistStatus)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", h.Appointments.CreateAppointment)
			appointments.GET("", h.Appointments.ListAppointments)
			appointments.PUT("/:id/confirmation", h.Appointments.UpdateConfirmation)
		}
	}

	return r
}
