// Файл: internal/routes/task.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
)

func runTaskRouter(secure *echo.Group, taskCtrl *controllers.TaskController, assignmentCtrl *controllers.AssignmentController) {
	secure.GET("/tasks", taskCtrl.GetTasks)
	secure.GET("/tasks/stats", taskCtrl.GetStats)
	secure.GET("/tasks/:id", taskCtrl.FindTask)
	secure.POST("/tasks", taskCtrl.CreateTask)
	secure.PUT("/tasks/:id", taskCtrl.UpdateTask)
	secure.DELETE("/tasks/:id", taskCtrl.DeleteTask)

	secure.GET("/tasks/:id/comments", taskCtrl.GetComments)
	secure.POST("/tasks/:id/comments", taskCtrl.AddComment)

	secure.POST("/tasks/:id/apply", assignmentCtrl.Apply)
	secure.POST("/tasks/:id/assign", assignmentCtrl.Assign)
	secure.POST("/tasks/:id/accept", assignmentCtrl.Accept)
	secure.POST("/tasks/:id/reject", assignmentCtrl.Reject)
	secure.POST("/tasks/:id/rejections/approve", assignmentCtrl.ApproveRejection)
	secure.POST("/tasks/:id/rejections/deny", assignmentCtrl.DenyRejection)
	secure.PATCH("/tasks/:id/progress", assignmentCtrl.UpdateProgress)
}
