package routes

import (
	"github.com/labstack/echo/v4"

	"cmms-system/internal/controllers"
	"cmms-system/pkg/middleware"
)

// Просмотр оборудования доступен всем вошедшим, изменения только
// администраторам.
func runEquipmentRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentController, authMW *middleware.AuthMiddleware) {
	secureGroup.GET("/equipment", ctrl.GetEquipment)
	secureGroup.GET("/equipment/:id", ctrl.FindEquipment)

	secureGroup.POST("/equipment", ctrl.CreateEquipment, authMW.RequireAdmin)
	secureGroup.PUT("/equipment/:id", ctrl.UpdateEquipment, authMW.RequireAdmin)
	secureGroup.DELETE("/equipment/:id", ctrl.DeleteEquipment, authMW.RequireAdmin)
}
