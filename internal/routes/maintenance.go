package routes

import (
	"github.com/labstack/echo/v4"

	"cmms-system/internal/controllers"
)

func runMaintenanceRouter(secureGroup *echo.Group, ctrl *controllers.MaintenanceController) {
	secureGroup.GET("/maintenance", ctrl.GetLogs)
	secureGroup.GET("/maintenance/:id", ctrl.FindLog)
	secureGroup.POST("/maintenance", ctrl.CreateLog)
}
