package schedule

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/handler"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/service/schedule"
)

type Handler struct {
	service schedule.ScheduleService
}

func NewHandler(service schedule.ScheduleService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/schedule")
	{
		group.GET("/workdays", h.ListWorkDays)
		group.PUT("/workdays", h.UpsertWorkDay)
		group.GET("/holidays", h.ListHolidays)
		group.POST("/holidays", h.CreateHoliday)
		group.DELETE("/holidays/:id", h.DeleteHoliday)
		group.GET("/shifts", h.ListWorkShifts)
		group.POST("/shifts", h.CreateWorkShift)
		group.DELETE("/shifts/:id", h.DeleteWorkShift)
		group.GET("/open", h.IsOpen)
	}
}

func (h *Handler) UpsertWorkDay(c *gin.Context) {
	var req model.UpdateWorkDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	day, err := h.service.UpsertWorkDay(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(day))
}

func (h *Handler) ListWorkDays(c *gin.Context) {
	days, err := h.service.ListWorkDays(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(days))
}

func (h *Handler) CreateHoliday(c *gin.Context) {
	var req model.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	holiday, err := h.service.CreateHoliday(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(holiday))
}

func (h *Handler) DeleteHoliday(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid holiday ID"))
		return
	}

	if err := h.service.DeleteHoliday(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) ListHolidays(c *gin.Context) {
	from := time.Now()
	to := from.AddDate(1, 0, 0)
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date"))
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to date"))
			return
		}
		to = t
	}

	holidays, err := h.service.ListHolidays(c.Request.Context(), from, to)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(holidays))
}

func (h *Handler) CreateWorkShift(c *gin.Context) {
	var req model.CreateWorkShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	shift, err := h.service.CreateWorkShift(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(shift))
}

func (h *Handler) DeleteWorkShift(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid shift ID"))
		return
	}

	if err := h.service.DeleteWorkShift(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) ListWorkShifts(c *gin.Context) {
	var userID *uuid.UUID
	if v := c.Query("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
			return
		}
		userID = &id
	}

	shifts, err := h.service.ListWorkShifts(c.Request.Context(), userID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(shifts))
}

// IsOpen answers whether the shop is open at a given instant, defaulting
// to now. The intake screen uses it to warn about deadlines landing on
// closed days.
func (h *Handler) IsOpen(c *gin.Context) {
	at := time.Now()
	if v := c.Query("at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid at timestamp"))
			return
		}
		at = t
	}

	open, err := h.service.IsOpen(c.Request.Context(), at)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"open": open, "at": at}))
}
