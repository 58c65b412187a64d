// Файл: internal/routes/label.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runLabelRouter(secure *echo.Group, ctrl *controllers.LabelController) {
	secure.GET("/labels", ctrl.GetLabels)
	secure.POST("/labels", ctrl.CreateLabel)
	secure.PUT("/labels/:id", ctrl.UpdateLabel)
	secure.DELETE("/labels/:id", ctrl.DeleteLabel)
}
