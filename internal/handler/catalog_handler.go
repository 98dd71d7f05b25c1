package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ThMadHatter/CarCalculator/internal/model"
	"github.com/ThMadHatter/CarCalculator/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogProvider lists brands and models
type CatalogProvider interface {
	Brands(ctx context.Context) ([]string, error)
	Models(ctx context.Context, brand string) ([]string, error)
}

// CatalogHandler handles brand and model HTTP requests
type CatalogHandler struct {
	catalog CatalogProvider
	errors  errorWriter
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogProvider, exposeErrors bool, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		errors:  errorWriter{exposeErrors: exposeErrors, logger: logger},
		logger:  logger,
	}
}

// GetBrands handles listing all brands
// GET /brands
func (h *CatalogHandler) GetBrands(c *gin.Context) {
	brands, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		h.errors.writeError(c, "brands", err)
		return
	}

	c.JSON(http.StatusOK, model.BrandListResponse{Brands: brands})
}

// GetModels handles listing the models of one brand
// GET /models?brand=<name>
func (h *CatalogHandler) GetModels(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	if brand == "" {
		utils.SendErrorResponse(c, http.StatusBadRequest, "brand parameter is required")
		return
	}

	models, err := h.catalog.Models(c.Request.Context(), brand)
	if err != nil {
		h.errors.writeError(c, "models", err)
		return
	}

	c.JSON(http.StatusOK, model.ModelListResponse{Brand: brand, Models: models})
}
