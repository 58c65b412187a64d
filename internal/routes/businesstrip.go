// Файл: internal/routes/businesstrip.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runBusinessTripRouter(secure *echo.Group, ctrl *controllers.BusinessTripController) {
	secure.POST("/business-trips/check-conflict", ctrl.CheckConflict)
	secure.POST("/business-trips/check-conflict/batch", ctrl.CheckConflictBatch)
}
