// Файл: internal/routes/notification.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runNotificationRouter(secure *echo.Group, ctrl *controllers.NotificationController) {
	secure.GET("/notifications", ctrl.GetMyNotifications)
	secure.GET("/notifications/unread-count", ctrl.CountUnread)
	secure.PATCH("/notifications/:id/read", ctrl.MarkRead)
	secure.PATCH("/notifications/read-all", ctrl.MarkAllRead)
}
