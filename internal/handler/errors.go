package handler

import (
	"errors"
	"net/http"

	"github.com/ThMadHatter/CarCalculator/internal/calculator"
	"github.com/ThMadHatter/CarCalculator/internal/client"
	"github.com/ThMadHatter/CarCalculator/internal/service"
	"github.com/ThMadHatter/CarCalculator/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotEnoughDataMessage is returned when no holding period can be evaluated
const NotEnoughDataMessage = "Not enough historical data to perform an estimate."

// errorWriter maps service errors to status codes
type errorWriter struct {
	exposeErrors bool
	logger       *zap.Logger
}

func (w errorWriter) writeError(c *gin.Context, op string, err error) {
	var fetchErr *client.FetchError
	var insufficient *calculator.InsufficientDataError

	switch {
	case errors.As(err, &fetchErr):
		w.logger.Error("Upstream fetch failed",
			zap.String("op", op),
			zap.String("url", fetchErr.URL),
			zap.Int("statusCode", fetchErr.StatusCode),
			zap.Error(err))
		utils.SendErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrNotEnoughData):
		utils.SendErrorResponse(c, http.StatusBadRequest, NotEnoughDataMessage)
	case errors.As(err, &insufficient):
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBrandNotFound):
		utils.SendErrorResponse(c, http.StatusNotFound, err.Error())
	default:
		w.logger.Error("Unexpected error", zap.String("op", op), zap.Error(err))
		message := "internal server error"
		if w.exposeErrors {
			message = err.Error()
		}
		utils.SendErrorResponse(c, http.StatusInternalServerError, message)
	}

	c.Error(err)
}

func (w errorWriter) writeBindError(c *gin.Context, err error) {
	utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
}
