// Файл: internal/routes/auth.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
	"github.com/wwwwwwmw/DA-BE/pkg/middleware"
)

func runAuthRouter(api *echo.Group, ctrl *controllers.AuthController, authMW *middleware.AuthMiddleware) {
	api.POST("/auth/login", ctrl.Login)
	api.POST("/auth/refresh", ctrl.RefreshToken)

	secure := api.Group("/auth", authMW.Auth)
	secure.GET("/me", ctrl.Me)
	secure.POST("/change-password", ctrl.ChangePassword)
	secure.POST("/unlock/:id", ctrl.Unlock)
}
