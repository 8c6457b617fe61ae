package routes

import (
	"github.com/labstack/echo/v4"

	"cmms-system/internal/controllers"
	"cmms-system/pkg/middleware"
)

// Запуск рассылок доступен только администраторам.
func runNotificationRouter(secureGroup *echo.Group, ctrl *controllers.NotificationController, authMW *middleware.AuthMiddleware) {
	notifications := secureGroup.Group("/notifications", authMW.RequireAdmin)

	notifications.POST("/reminders/run", ctrl.RunReminders)
	notifications.POST("/summary/run", ctrl.RunDailySummary)
}
