// Файл: internal/routes/project.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runProjectRouter(secure *echo.Group, ctrl *controllers.ProjectController) {
	secure.GET("/projects", ctrl.GetProjects)
	secure.GET("/projects/:id", ctrl.FindProject)
	secure.POST("/projects", ctrl.CreateProject)
	secure.PUT("/projects/:id", ctrl.UpdateProject)
	secure.DELETE("/projects/:id", ctrl.DeleteProject)
}
