package establishment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiloazul/tailor-api/internal/handler"
	"github.com/hiloazul/tailor-api/internal/middleware"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/service/establishment"
)

type Handler struct {
	service establishment.EstablishmentService
}

func NewHandler(service establishment.EstablishmentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/establishment")
	{
		group.GET("", h.Get)
		group.PUT("", middleware.RequireRole(model.UserRoleAdmin), h.Update)
	}
}

func (h *Handler) Get(c *gin.Context) {
	est, err := h.service.Get(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(est))
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	est, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(est))
}
