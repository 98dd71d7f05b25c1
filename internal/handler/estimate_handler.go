package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ThMadHatter/CarCalculator/internal/model"
	"github.com/ThMadHatter/CarCalculator/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EstimateProvider computes the monthly cost of owning a car
type EstimateProvider interface {
	Estimate(ctx context.Context, req model.EstimateRequest) (*model.EstimateResponse, error)
}

// BreakEvenProvider compares buying with renting
type BreakEvenProvider interface {
	BreakEven(ctx context.Context, req model.BreakEvenRequest) (*model.BreakEvenResponse, error)
	Analysis(ctx context.Context, req model.BreakEvenAnalysisRequest) (*model.BreakEvenAnalysisResponse, error)
}

// ChartRenderer draws a break-even analysis
type ChartRenderer interface {
	RenderAnalysis(title string, analysis *model.BreakEvenAnalysisResponse, maxYears int) ([]byte, error)
}

// EstimateHandler handles estimate and break-even HTTP requests
type EstimateHandler struct {
	estimates EstimateProvider
	breakEven BreakEvenProvider
	charts    ChartRenderer
	defaults  model.RequestDefaults
	errors    errorWriter
	logger    *zap.Logger
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(
	estimates EstimateProvider,
	breakEven BreakEvenProvider,
	charts ChartRenderer,
	defaults model.RequestDefaults,
	exposeErrors bool,
	logger *zap.Logger,
) *EstimateHandler {
	return &EstimateHandler{
		estimates: estimates,
		breakEven: breakEven,
		charts:    charts,
		defaults:  defaults,
		errors:    errorWriter{exposeErrors: exposeErrors, logger: logger},
		logger:    logger,
	}
}

// Estimate handles a monthly cost estimate
// POST /estimate
func (h *EstimateHandler) Estimate(c *gin.Context) {
	req := model.NewEstimateRequest(h.defaults)
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.writeBindError(c, err)
		return
	}

	resp, err := h.estimates.Estimate(c.Request.Context(), req)
	if err != nil {
		h.errors.writeError(c, "estimate", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// BreakEven handles a single-horizon buy versus rent comparison
// POST /break_even
func (h *EstimateHandler) BreakEven(c *gin.Context) {
	req := model.NewBreakEvenRequest(h.defaults)
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.writeBindError(c, err)
		return
	}

	resp, err := h.breakEven.BreakEven(c.Request.Context(), req)
	if err != nil {
		h.errors.writeError(c, "break_even", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// BreakEvenAnalysis handles the purchase age by holding duration matrix
// POST /break_even_analysis
func (h *EstimateHandler) BreakEvenAnalysis(c *gin.Context) {
	req, ok := h.bindAnalysis(c)
	if !ok {
		return
	}

	resp, err := h.breakEven.Analysis(c.Request.Context(), req)
	if err != nil {
		h.errors.writeError(c, "break_even_analysis", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// BreakEvenAnalysisChart renders the analysis as a PNG line chart
// POST /break_even_analysis/chart
func (h *EstimateHandler) BreakEvenAnalysisChart(c *gin.Context) {
	req, ok := h.bindAnalysis(c)
	if !ok {
		return
	}

	analysis, err := h.breakEven.Analysis(c.Request.Context(), req)
	if err != nil {
		h.errors.writeError(c, "break_even_analysis_chart", err)
		return
	}

	title := strings.TrimSpace(req.Brand + " " + req.Model + " " + req.Details)
	png, err := h.charts.RenderAnalysis(title, analysis, req.MaxYears)
	if err != nil {
		h.errors.writeError(c, "break_even_analysis_chart", err)
		return
	}

	filename := fmt.Sprintf("%s-%s-break-even.png", strings.ToLower(req.Brand), strings.ToLower(req.Model))
	utils.SendPNG(c, http.StatusOK, strings.ReplaceAll(filename, " ", "-"), png)
}

func (h *EstimateHandler) bindAnalysis(c *gin.Context) (model.BreakEvenAnalysisRequest, bool) {
	req := model.NewBreakEvenAnalysisRequest(h.defaults)
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.writeBindError(c, err)
		return req, false
	}
	return req, true
}
