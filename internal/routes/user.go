// Файл: internal/routes/user.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runUserRouter(secure *echo.Group, ctrl *controllers.UserController) {
	secure.GET("/users", ctrl.GetUsers)
	secure.GET("/users/:id", ctrl.FindUser)
	secure.POST("/users", ctrl.CreateUser)
	secure.PUT("/users/:id", ctrl.UpdateUser)
	secure.DELETE("/users/:id", ctrl.DeleteUser)
}
