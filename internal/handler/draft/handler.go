package draft

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/handler"
	"github.com/hiloazul/tailor-api/internal/middleware"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/service/draft"
)

type Handler struct {
	service draft.DraftService
}

func NewHandler(service draft.DraftService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	drafts := r.Group("/drafts")
	{
		drafts.POST("", h.Create)
		drafts.GET("", h.List)
		drafts.GET("/:id", h.Get)
		drafts.PUT("/:id", h.Save)
		drafts.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	d, err := h.service.Save(c.Request.Context(), currentUserID(c), nil, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(d))
}

func (h *Handler) Save(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid draft ID"))
		return
	}

	var req model.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	d, err := h.service.Save(c.Request.Context(), currentUserID(c), &id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid draft ID"))
		return
	}

	d, err := h.service.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(d))
}

func (h *Handler) List(c *gin.Context) {
	drafts, err := h.service.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(drafts))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid draft ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
