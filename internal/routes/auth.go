package routes

import (
	"github.com/labstack/echo/v4"

	"cmms-system/internal/controllers"
)

func runAuthRouter(api *echo.Group, secureGroup *echo.Group, ctrl *controllers.AuthController) {
	api.POST("/login", ctrl.Login)
	api.POST("/signup", ctrl.Signup)
	api.POST("/refresh_token", ctrl.RefreshToken)

	secureGroup.POST("/logout", ctrl.Logout)
	secureGroup.GET("/current_user", ctrl.CurrentUser)
}
