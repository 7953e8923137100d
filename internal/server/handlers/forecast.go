package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/forecast-gateway/internal/forecast"
	"github.com/vzahanych/forecast-gateway/internal/server/utils"
	"go.uber.org/zap"
)

type ForecastHandler struct {
	service *forecast.Service
	logger  *zap.Logger
}

func NewForecastHandler(svc *forecast.Service, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{
		service: svc,
		logger:  logger,
	}
}

func (h *ForecastHandler) Predict(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	// An unloaded engine answers 503 before the body is even read.
	if err := h.service.Gateway().CheckReady(ctx); err != nil {
		h.writeError(c, reqLogger, err)
		return
	}

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqLogger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{
			Status:  http.StatusBadRequest,
			Error:   "invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: utils.FormatBindingError(err),
		})
		return
	}

	reqLogger.Info("Processing forecast request",
		zap.Float64("lat", *req.Lat),
		zap.Float64("lon", *req.Lon),
		zap.String("target_date", req.TargetDate))

	resp, err := h.service.Predict(ctx, forecast.Request{
		Lat:         *req.Lat,
		Lon:         *req.Lon,
		TargetDate:  req.TargetDate,
		HorizonDays: req.HorizonDays,
	})
	if err != nil {
		h.writeError(c, reqLogger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ForecastHandler) writeError(c *gin.Context, logger *zap.Logger, err error) {
	status, code, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Forecast request failed", zap.String("code", code), zap.Error(err))
	} else {
		logger.Warn("Forecast request rejected", zap.String("code", code), zap.Error(err))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, utils.ErrorResponse{
		Status: status,
		Error:  message,
		Code:   code,
	})
}

// errorStatus maps a pipeline error to its HTTP status, error code and the
// message that is safe to return.
func errorStatus(err error) (int, string, string) {
	var engErr *forecast.EngineError

	switch {
	case errors.Is(err, forecast.ErrNotReady):
		return http.StatusServiceUnavailable, "SERVICE_NOT_READY", forecast.ErrNotReady.Error()
	case errors.Is(err, forecast.ErrInvalidTargetDate):
		return http.StatusBadRequest, "INVALID_DATE_FORMAT", forecast.ErrInvalidTargetDate.Error()
	case errors.Is(err, forecast.ErrPastTargetDate):
		return http.StatusBadRequest, "PAST_TARGET_DATE", forecast.ErrPastTargetDate.Error()
	case errors.Is(err, forecast.ErrNoDailyData):
		return http.StatusNotFound, "NO_DAILY_DATA", forecast.ErrNoDailyData.Error()
	case errors.As(err, &engErr):
		return http.StatusInternalServerError, "ENGINE_ERROR", "server error during forecast: " + engErr.Class
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
