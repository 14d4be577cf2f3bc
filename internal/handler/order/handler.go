package order

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/handler"
	"github.com/hiloazul/tailor-api/internal/middleware"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/service/order"
	"github.com/hiloazul/tailor-api/pkg/metrics"
)

type Handler struct {
	service order.OrderService
	metrics *metrics.Metrics
}

func NewHandler(service order.OrderService, metrics *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: metrics}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id", h.Update)
		orders.POST("/:id/transition", h.Transition)
		orders.POST("/:id/payments", h.RecordPayment)
		orders.GET("/:id/receipt", h.Receipt)
	}
	r.GET("/tickets/:number", h.GetByTicket)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	createdBy := currentUserID(c)
	o, err := h.service.Create(c.Request.Context(), &req, createdBy)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersCreated.Inc()
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(o))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"order":   o,
		"balance": h.service.Balance(o),
	}))
}

func (h *Handler) GetByTicket(c *gin.Context) {
	o, err := h.service.GetByTicketNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"order":   o,
		"balance": h.service.Balance(o),
	}))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	var req model.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	o, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(o))
}

func (h *Handler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	var req model.TransitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	o, err := h.service.Transition(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(o))
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	o, err := h.service.RecordPayment(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentsTotal.WithLabelValues(string(req.Method)).Inc()
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"order":   o,
		"balance": h.service.Balance(o),
	}))
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.OrderFilters{
		Status:     model.OrderStatus(c.Query("status")),
		SearchTerm: c.Query("search"),
	}
	if v := c.Query("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
			return
		}
		filters.CustomerID = id
	}
	if v := c.Query("deadline_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid deadline_from"))
			return
		}
		filters.DeadlineFrom = t
	}
	if v := c.Query("deadline_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid deadline_to"))
			return
		}
		filters.DeadlineTo = t
	}

	orders, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(orders))
}

func (h *Handler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	receipt, err := h.service.Receipt(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(receipt))
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
