package routes

import (
	"github.com/labstack/echo/v4"

	"cmms-system/internal/controllers"
	"cmms-system/pkg/middleware"
)

// Управление пользователями доступно только администраторам.
func runUserRouter(secureGroup *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	users := secureGroup.Group("/users", authMW.RequireAdmin)

	users.GET("", ctrl.GetUsers)
	users.GET("/:id", ctrl.FindUser)
	users.POST("", ctrl.CreateUser)
	users.PUT("/:id", ctrl.UpdateUser)
	users.DELETE("/:id", ctrl.DeleteUser)
	users.PUT("/:id/toggle-active", ctrl.ToggleActive)
}
