// Файл: internal/routes/event.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
	"github.com/wwwwwwmw/DA-BE/pkg/middleware"
)

func runEventRouter(api, secure *echo.Group, ctrl *controllers.EventController, authMW *middleware.AuthMiddleware) {
	// Список событий доступен без токена: аноним видит только глобальные.
	api.GET("/events", ctrl.GetEvents, authMW.MaybeAuth)

	secure.GET("/events/:id", ctrl.FindEvent)
	secure.POST("/events", ctrl.CreateEvent)
	secure.PUT("/events/:id", ctrl.UpdateEvent)
	secure.PATCH("/events/:id/status", ctrl.UpdateEventStatus)
	secure.DELETE("/events/:id", ctrl.DeleteEvent)

	secure.POST("/events/:id/participants", ctrl.AddParticipants)
	secure.DELETE("/events/:id/participants/:userId", ctrl.RemoveParticipant)
	secure.POST("/events/:id/rsvp", ctrl.RSVP)
	secure.POST("/events/:id/adjustment-note", ctrl.SetAdjustmentNote)
}
