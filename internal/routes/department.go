// Файл: internal/routes/department.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runDepartmentRouter(secure *echo.Group, ctrl *controllers.DepartmentController) {
	secure.GET("/departments", ctrl.GetDepartments)
	secure.GET("/departments/:id", ctrl.FindDepartment)
	secure.POST("/departments", ctrl.CreateDepartment)
	secure.PUT("/departments/:id", ctrl.UpdateDepartment)
	secure.DELETE("/departments/:id", ctrl.DeleteDepartment)
}
