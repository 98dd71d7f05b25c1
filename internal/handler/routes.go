package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API on a router or group
func RegisterRoutes(r gin.IRoutes, catalog *CatalogHandler, estimates *EstimateHandler) {
	r.GET("/brands", catalog.GetBrands)
	r.GET("/models", catalog.GetModels)
	r.POST("/estimate", estimates.Estimate)
	r.POST("/break_even", estimates.BreakEven)
	r.POST("/break_even_analysis", estimates.BreakEvenAnalysis)
	r.POST("/break_even_analysis/chart", estimates.BreakEvenAnalysisChart)
}

// Health reports that the process is serving requests
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
