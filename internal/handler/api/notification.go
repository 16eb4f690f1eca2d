package api

import (
	"errors"
	"net/http"

	reqdto "stock-notifier/internal/handler/dto/request"
	resdto "stock-notifier/internal/handler/dto/response"
	"stock-notifier/internal/handler/httperr"
	"stock-notifier/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notifications usecase.NotificationUseCase
	schedules     usecase.ScheduleUseCase
}

func NewNotificationHandler(notifications usecase.NotificationUseCase, schedules usecase.ScheduleUseCase) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, schedules: schedules}
}

// @Summary Send out-of-stock email
// @Description Filter the given products to zero inventory and email the list immediately
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body reqdto.SendEmailRequest true "Send email request"
// @Success 200 {object} resdto.SendEmailResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/send-email [post]
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	var req reqdto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", httperr.BindingDetail(err))
		return
	}
	products, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid products", nil)
		return
	}

	result, err := h.notifications.SendOutOfStock(c.Request.Context(), req.Email, products)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyRecipient):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Recipient is required", nil)
		case errors.Is(err, usecase.ErrMailTransport):
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to send email", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromSendResult(result))
}

// @Summary Schedule out-of-stock email
// @Description Register a recurring notification on a five-field cron expression
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body reqdto.ScheduleEmailRequest true "Schedule email request"
// @Success 200 {object} resdto.ScheduleEmailResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/schedule-email [post]
func (h *NotificationHandler) ScheduleEmail(c *gin.Context) {
	var req reqdto.ScheduleEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", httperr.BindingDetail(err))
		return
	}
	products, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid products", nil)
		return
	}

	view, err := h.schedules.Register(c.Request.Context(), usecase.RegisterParams{
		Expression: req.Schedule,
		Recipient:  req.Email,
		Products:   products,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidScheduleExpression):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid schedule expression", nil)
		case errors.Is(err, usecase.ErrEmptyRecipient):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Recipient is required", nil)
		case errors.Is(err, usecase.ErrSchedulerStopped):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Scheduler is shutting down", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to schedule email", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.ScheduleEmailResponse{
		Message:  "Email schedule set successfully",
		Schedule: resdto.FromJobView(view),
	})
}

// @Summary List schedules
// @Description List active email schedules ordered by creation time
// @Tags schedules
// @Produce json
// @Success 200 {object} resdto.ScheduleListResponse
// @Router /api/schedules [get]
func (h *NotificationHandler) ListSchedules(c *gin.Context) {
	views, err := h.schedules.ListActive(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list schedules", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromJobViews(views))
}

// @Summary Get schedule
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} resdto.ScheduleResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/schedules/{id} [get]
func (h *NotificationHandler) GetSchedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.schedules.Get(c.Request.Context(), id)
	if err != nil {
		abortScheduleLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromJobView(view))
}

// @Summary Cancel schedule
// @Tags schedules
// @Param id path string true "Schedule ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/schedules/{id} [delete]
func (h *NotificationHandler) CancelSchedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.schedules.Cancel(c.Request.Context(), id); err != nil {
		abortScheduleLookup(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Run schedule now
// @Description Fire a schedule once outside its cron cadence
// @Tags schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} resdto.RunScheduleResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/schedules/{id}/run [post]
func (h *NotificationHandler) RunSchedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.schedules.FireNow(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrJobNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Schedule not found", nil)
		case errors.Is(err, usecase.ErrJobAlreadyFiring):
			httperr.AbortWithError(c, http.StatusConflict, err, "Schedule is already firing", nil)
		case errors.Is(err, usecase.ErrFiringLockHeld):
			httperr.AbortWithError(c, http.StatusConflict, err, "Schedule was already run manually this minute", nil)
		case errors.Is(err, usecase.ErrMailTransport):
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to send email", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.RunScheduleResponse{
		Message:  "Schedule fired",
		Schedule: resdto.FromJobView(view),
	})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func abortScheduleLookup(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrJobNotFound) {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Schedule not found", nil)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
