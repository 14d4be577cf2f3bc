package workorder

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/handler"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/service/workorder"
)

type Handler struct {
	service workorder.WorkOrderService
}

func NewHandler(service workorder.WorkOrderService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/workorders")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("/:id/items/:itemId/advance", h.AdvanceItem)
	}
	r.GET("/orders/:id/workorder", h.GetBySalesOrder)
}

func (h *Handler) List(c *gin.Context) {
	status := model.WorkOrderStatus(c.Query("status"))
	orders, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(orders))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid work order ID"))
		return
	}

	wo, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(wo))
}

func (h *Handler) GetBySalesOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	wo, err := h.service.GetBySalesOrder(c.Request.Context(), orderID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(wo))
}

func (h *Handler) AdvanceItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid work order ID"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid work item ID"))
		return
	}

	var req model.AdvanceWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	wo, err := h.service.AdvanceItem(c.Request.Context(), id, itemID, req.Stage)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(wo))
}
