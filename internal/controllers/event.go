// Файл: internal/controllers/event.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/services"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

type EventController struct {
	eventService       *services.EventService
	participantService *services.ParticipantService
	principalService   services.PrincipalServiceInterface
	logger             *zap.Logger
}

func NewEventController(
	eventService *services.EventService,
	participantService *services.ParticipantService,
	principalService services.PrincipalServiceInterface,
	logger *zap.Logger,
) *EventController {
	return &EventController{
		eventService:       eventService,
		participantService: participantService,
		principalService:   principalService,
		logger:             logger,
	}
}

// GetEvents доступен и без токена: аноним видит только глобальные события.
func (c *EventController) GetEvents(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		principal = &authz.Principal{Role: constants.RoleEmployee}
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	events, total, err := c.eventService.GetEvents(reqCtx, principal, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, events, "События успешно получены", http.StatusOK, total)
}

func (c *EventController) FindEvent(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	res, err := c.eventService.FindEvent(reqCtx, principal, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Событие успешно найдено", http.StatusOK)
}

func (c *EventController) CreateEvent(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateEventDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.eventService.CreateEvent(reqCtx, principal, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Событие успешно создано", http.StatusCreated)
}

func (c *EventController) UpdateEvent(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.UpdateEventDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.eventService.UpdateEvent(reqCtx, principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Событие успешно обновлено", http.StatusOK)
}

// UpdateEventStatus — смена статуса события (одобрение, отклонение,
// завершение) менеджером или администратором.
func (c *EventController) UpdateEventStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.UpdateEventStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.eventService.UpdateEventStatus(reqCtx, principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус события успешно изменён", http.StatusOK)
}

func (c *EventController) DeleteEvent(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	if err := c.eventService.DeleteEvent(reqCtx, principal, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Событие успешно удалено", http.StatusOK)
}

func (c *EventController) AddParticipants(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.AddParticipantsDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.participantService.AddParticipants(reqCtx, principal, eventID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Участники успешно добавлены", http.StatusOK)
}

func (c *EventController) RemoveParticipant(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID пользователя"), c.logger)
	}

	if err := c.participantService.RemoveParticipant(reqCtx, principal, eventID, userID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Участник успешно удалён", http.StatusOK)
}

// RSVP — ответ текущего пользователя на приглашение.
func (c *EventController) RSVP(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.RSVPDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.participantService.RSVP(reqCtx, principal, eventID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Ответ на приглашение сохранён", http.StatusOK)
}

func (c *EventController) SetAdjustmentNote(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	principal, err := c.principalService.Resolve(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверный формат ID"), c.logger)
	}

	var payload dto.AdjustmentNoteDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "Неверное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.participantService.SetAdjustmentNote(reqCtx, principal, eventID, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Пометка сохранена", http.StatusOK)
}
