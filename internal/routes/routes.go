// Файл: internal/routes/routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/controllers"
	"github.com/wwwwwwmw/DA-BE/internal/listeners"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/internal/services"
	"github.com/wwwwwwmw/DA-BE/pkg/config"
	"github.com/wwwwwwmw/DA-BE/pkg/eventbus"
	"github.com/wwwwwwmw/DA-BE/pkg/middleware"
	"github.com/wwwwwwmw/DA-BE/pkg/service"
	"github.com/wwwwwwmw/DA-BE/pkg/websocket"
)

// InitRouter собирает весь граф зависимостей и вешает маршруты.
// Возвращает сервис напоминаний, который запускает main.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	cfg *config.Config,
	logger *zap.Logger,
) *services.ReminderService {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// --- Репозитории ---
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	departmentRepo := repositories.NewDepartmentRepository(dbConn, logger)
	roomRepo := repositories.NewRoomRepository(dbConn, logger)
	eventRepo := repositories.NewEventRepository(dbConn, logger)
	participantRepo := repositories.NewParticipantRepository(dbConn, logger)
	projectRepo := repositories.NewProjectRepository(dbConn, logger)
	taskRepo := repositories.NewTaskRepository(dbConn, logger)
	assignmentRepo := repositories.NewAssignmentRepository(dbConn, logger)
	labelRepo := repositories.NewLabelRepository(dbConn, logger)
	notificationRepo := repositories.NewNotificationRepository(dbConn, logger)
	commentRepo := repositories.NewCommentRepository(dbConn, logger)

	// --- Сервисы ---
	broadcaster := services.NewHubBroadcaster(hub)
	principalService := services.NewPrincipalService(userRepo, cacheRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, broadcaster, logger)
	tripService := services.NewBusinessTripService(eventRepo, logger)

	authService := services.NewAuthService(userRepo, jwtSvc, principalService, cfg.Auth, logger)
	userService := services.NewUserService(userRepo, principalService, logger)
	departmentService := services.NewDepartmentService(departmentRepo, logger)
	roomService := services.NewRoomService(roomRepo, logger)
	labelService := services.NewLabelService(labelRepo, logger)
	eventService := services.NewEventService(eventRepo, participantRepo, userRepo, tripService, bus, logger)
	participantService := services.NewParticipantService(participantRepo, eventRepo, tripService, bus, logger)
	projectService := services.NewProjectService(projectRepo, taskRepo, assignmentRepo, logger)
	assignmentService := services.NewAssignmentService(taskRepo, assignmentRepo, userRepo, tripService, bus, logger)
	taskService := services.NewTaskService(taskRepo, assignmentRepo, commentRepo, userRepo, assignmentService, bus, logger)
	reportService := services.NewReportService(taskRepo, assignmentRepo, projectRepo, userRepo, logger)
	reminderService := services.NewReminderService(eventRepo, participantRepo, cacheRepo, bus, cfg.Reminder, logger)

	// --- Слушатели шины ---
	listeners.NewNotificationListener(notificationService, logger).Register(bus)
	listeners.NewBroadcastListener(broadcaster, logger).Register(bus)

	// --- Контроллеры ---
	authController := controllers.NewAuthController(authService, principalService, logger)
	userController := controllers.NewUserController(userService, principalService, logger)
	departmentController := controllers.NewDepartmentController(departmentService, principalService, logger)
	roomController := controllers.NewRoomController(roomService, principalService, logger)
	eventController := controllers.NewEventController(eventService, participantService, principalService, logger)
	projectController := controllers.NewProjectController(projectService, principalService, logger)
	taskController := controllers.NewTaskController(taskService, principalService, logger)
	assignmentController := controllers.NewAssignmentController(assignmentService, principalService, logger)
	labelController := controllers.NewLabelController(labelService, principalService, logger)
	notificationController := controllers.NewNotificationController(notificationService, logger)
	tripController := controllers.NewBusinessTripController(tripService, logger)
	reportController := controllers.NewReportController(reportService, principalService, logger)
	wsController := controllers.NewWebSocketController(hub, jwtSvc, logger)

	// --- Маршруты ---
	secure := api.Group("", authMW.Auth)

	runAuthRouter(api, authController, authMW)
	runUserRouter(secure, userController)
	runDepartmentRouter(secure, departmentController)
	runRoomRouter(secure, roomController)
	runEventRouter(api, secure, eventController, authMW)
	runProjectRouter(secure, projectController)
	runTaskRouter(secure, taskController, assignmentController)
	runLabelRouter(secure, labelController)
	runNotificationRouter(secure, notificationController)
	runBusinessTripRouter(secure, tripController)
	runReportRouter(secure, reportController)

	e.GET("/ws", wsController.ServeWs)

	logger.Info("Маршруты зарегистрированы")
	return reminderService
}
