// Файл: internal/controllers/businesstrip.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/services"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

// BusinessTripController — проверка конфликтов с командировками перед
// назначением или приглашением.
type BusinessTripController struct {
	tripService services.BusinessTripServiceInterface
	logger      *zap.Logger
}

func NewBusinessTripController(tripService services.BusinessTripServiceInterface, logger *zap.Logger) *BusinessTripController {
	return &BusinessTripController{tripService: tripService, logger: logger}
}

func (c *BusinessTripController) CheckConflict(ctx echo.Context) error {
	var payload dto.ConflictCheckDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result := c.tripService.CheckConflict(ctx.Request().Context(), payload.UserID, payload.StartTime, payload.EndTime)
	return utils.SuccessResponse(ctx, result, "Проверка выполнена", http.StatusOK)
}

func (c *BusinessTripController) CheckConflictBatch(ctx echo.Context) error {
	var payload dto.BatchConflictCheckDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	results := c.tripService.CheckConflictBatch(ctx.Request().Context(), payload.UserIDs, payload.StartTime, payload.EndTime)
	return utils.SuccessResponse(ctx, results, "Проверка выполнена", http.StatusOK)
}
