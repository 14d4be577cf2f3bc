package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hiloazul/tailor-api/internal/middleware"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/service/catalog"
)

type fakeService struct {
	catalog.CatalogService
}

func (f *fakeService) CreateGarmentType(_ context.Context, req *model.CreateGarmentTypeRequest) (*model.GarmentType, error) {
	return &model.GarmentType{Name: req.Name, Active: true}, nil
}

func (f *fakeService) ListGarmentTypes(_ context.Context, _ bool) ([]*model.GarmentType, error) {
	return []*model.GarmentType{{Name: "Trousers", Active: true}}, nil
}

func routerAs(role model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextRole, role)
		c.Next()
	})
	NewHandler(&fakeService{}).RegisterRoutes(api)
	return r
}

func TestCatalogAdministrationRequiresAdmin(t *testing.T) {
	body := `{"name":"Coat"}`

	t.Run("staff cannot create garment types", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/garment-types", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		routerAs(model.UserRoleStaff).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "insufficient permissions")
	})

	t.Run("admin can create garment types", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/garment-types", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		routerAs(model.UserRoleAdmin).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("staff can still read the catalog", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/garment-types", nil)
		routerAs(model.UserRoleStaff).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Trousers")
		assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=60")
	})
}
