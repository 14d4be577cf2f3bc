package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/handler"
	"github.com/hiloazul/tailor-api/internal/middleware"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/service/catalog"
)

type Handler struct {
	service catalog.CatalogService
}

func NewHandler(service catalog.CatalogService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// The catalog changes rarely; let intake clients cache reads briefly.
	readCache := middleware.Cache(middleware.CacheConfig{
		MaxAge:  60,
		Private: true,
		Vary:    []string{"Authorization"},
	})

	garments := r.Group("/garment-types")
	{
		garments.GET("", readCache, h.ListGarmentTypes)
		garments.GET("/:id", readCache, h.GetGarmentType)
		garments.GET("/:id/services", readCache, h.ListServicesForGarmentType)

		admin := garments.Group("", middleware.RequireRole(model.UserRoleAdmin))
		{
			admin.POST("", h.CreateGarmentType)
			admin.PUT("/:id", h.UpdateGarmentType)
			admin.DELETE("/:id", h.DeleteGarmentType)
		}
	}

	services := r.Group("/services")
	{
		services.GET("", readCache, h.ListServices)
		services.GET("/:id", readCache, h.GetService)

		admin := services.Group("", middleware.RequireRole(model.UserRoleAdmin))
		{
			admin.POST("", h.CreateService)
			admin.PUT("/:id", h.UpdateService)
			admin.DELETE("/:id", h.DeleteService)
		}
	}
}

func (h *Handler) CreateGarmentType(c *gin.Context) {
	var req model.CreateGarmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	gt, err := h.service.CreateGarmentType(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gt))
}

func (h *Handler) GetGarmentType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid garment type ID"))
		return
	}

	gt, err := h.service.GetGarmentType(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gt))
}

func (h *Handler) UpdateGarmentType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid garment type ID"))
		return
	}

	var req model.UpdateGarmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	gt, err := h.service.UpdateGarmentType(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gt))
}

func (h *Handler) DeleteGarmentType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid garment type ID"))
		return
	}

	if err := h.service.DeleteGarmentType(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) ListGarmentTypes(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	types, err := h.service.ListGarmentTypes(c.Request.Context(), activeOnly)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(types))
}

func (h *Handler) ListServicesForGarmentType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid garment type ID"))
		return
	}

	services, err := h.service.ListServicesForGarmentType(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(svc))
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(svc))
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	var req model.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	svc, err := h.service.UpdateService(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(svc))
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	if err := h.service.DeleteService(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) ListServices(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"
	services, err := h.service.ListServices(c.Request.Context(), activeOnly)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}
