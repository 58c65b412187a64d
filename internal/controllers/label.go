// Файл: internal/controllers/label.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/services"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

type LabelController struct {
	labelService     *services.LabelService
	principalService services.PrincipalServiceInterface
	logger           *zap.Logger
}

func NewLabelController(labelService *services.LabelService, principalService services.PrincipalServiceInterface, logger *zap.Logger) *LabelController {
	return &LabelController{labelService: labelService, principalService: principalService, logger: logger}
}

func (c *LabelController) GetLabels(ctx echo.Context) error {
	labels, err := c.labelService.GetLabels(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, labels, "Метки успешно получены", http.StatusOK)
}

func (c *LabelController) CreateLabel(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateLabelDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.labelService.CreateLabel(reqCtx, principal, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Метка успешно создана", http.StatusCreated)
}

func (c *LabelController) UpdateLabel(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.UpdateLabelDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.labelService.UpdateLabel(reqCtx, principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Метка успешно обновлена", http.StatusOK)
}

func (c *LabelController) DeleteLabel(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	if err := c.labelService.DeleteLabel(reqCtx, principal, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Метка успешно удалена", http.StatusOK)
}
