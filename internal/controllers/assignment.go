// Файл: internal/controllers/assignment.go
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

// AssignmentController — операции жизненного цикла назначений задачи.
type AssignmentController struct {
	assignmentService services.AssignmentServiceInterface
	principalService  services.PrincipalServiceInterface
	logger            *zap.Logger
}

func NewAssignmentController(assignmentService services.AssignmentServiceInterface, principalService services.PrincipalServiceInterface, logger *zap.Logger) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService, principalService: principalService, logger: logger}
}

// Apply — самозапись текущего пользователя на открытую задачу.
func (c *AssignmentController) Apply(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	res, err := c.assignmentService.Apply(reqCtx, principal, taskID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Вы записаны на задачу", http.StatusCreated)
}

// Assign — назначение исполнителя менеджером.
func (c *AssignmentController) Assign(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.AssignTaskDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assignmentService.Assign(reqCtx, principal, taskID, payload.UserID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Исполнитель успешно назначен", http.StatusCreated)
}

func (c *AssignmentController) Accept(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	if err := c.assignmentService.Accept(reqCtx, principal, taskID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Назначение подтверждено", http.StatusOK)
}

func (c *AssignmentController) Reject(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.RejectTaskDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.assignmentService.Reject(reqCtx, principal, taskID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Отказ от задачи сохранён", http.StatusOK)
}

// ApproveRejection — менеджер принимает отказ, назначение снимается.
func (c *AssignmentController) ApproveRejection(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.RejectionDecisionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.assignmentService.ApproveRejection(reqCtx, principal, taskID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Отказ принят, назначение снято", http.StatusOK)
}

// DenyRejection — менеджер отклоняет отказ, назначение возвращается.
func (c *AssignmentController) DenyRejection(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.RejectionDecisionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.assignmentService.DenyRejection(reqCtx, principal, taskID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Отказ отклонён, назначение восстановлено", http.StatusOK)
}

func (c *AssignmentController) UpdateProgress(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.UpdateProgressDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.assignmentService.UpdateProgress(reqCtx, principal, taskID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Прогресс успешно обновлён", http.StatusOK)
}
