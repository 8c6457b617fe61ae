package routes

import (
	"github.com/labstack/echo/v4"

	"cmms-system/internal/controllers"
)

func runReportRouter(secureGroup *echo.Group, dashboardCtrl *controllers.DashboardController, reportCtrl *controllers.ReportController) {
	secureGroup.GET("/reports/dashboard", dashboardCtrl.GetDashboard)
	secureGroup.GET("/reports/downtime", dashboardCtrl.GetDowntimeReport)
	secureGroup.GET("/reports/equipment", reportCtrl.GetEquipmentReports)
	secureGroup.GET("/reports/equipment/:id", reportCtrl.GetEquipmentReport)
	secureGroup.GET("/reports/export", reportCtrl.ExportEquipmentReports)
}
