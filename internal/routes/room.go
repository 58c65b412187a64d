// Файл: internal/routes/room.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runRoomRouter(secure *echo.Group, ctrl *controllers.RoomController) {
	secure.GET("/rooms", ctrl.GetRooms)
	secure.GET("/rooms/:id", ctrl.FindRoom)
	secure.POST("/rooms", ctrl.CreateRoom)
	secure.PUT("/rooms/:id", ctrl.UpdateRoom)
	secure.DELETE("/rooms/:id", ctrl.DeleteRoom)
}
