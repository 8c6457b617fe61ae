package routes

import (
	"github.com/labstack/echo/v4"

	"cmms-system/internal/controllers"
)

func runFailureRouter(secureGroup *echo.Group, ctrl *controllers.FailureController) {
	secureGroup.GET("/failures", ctrl.GetReports)
	secureGroup.GET("/failures/:id", ctrl.FindReport)
	secureGroup.POST("/failures", ctrl.CreateReport)
	secureGroup.PUT("/failures/:id", ctrl.ResolveReport)
}
