package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cmms-system/internal/services"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetEquipmentReports отдает сводку по всему оборудованию. При
// format=xlsx отдает файл вместо JSON.
func (c *ReportController) GetEquipmentReports(ctx echo.Context) error {
	format := strings.ToLower(ctx.QueryParam("format"))

	if format == "xlsx" {
		file, err := c.reportService.ExportEquipmentReports(ctx.Request().Context())
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return c.respondWithXLSX(ctx, file)
	}

	reports, err := c.reportService.GetAllEquipmentReports(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, reports, "Отчет успешно сформирован", http.StatusOK)
}

// ExportEquipmentReports всегда отдает XLSX-файл.
func (c *ReportController) ExportEquipmentReports(ctx echo.Context) error {
	file, err := c.reportService.ExportEquipmentReports(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, file)
}

func (c *ReportController) GetEquipmentReport(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.reportService.GetEquipmentReport(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, report, "Отчет успешно сформирован", http.StatusOK)
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, file *excelize.File) error {
	filename := fmt.Sprintf("equipment_report_%s.xlsx", time.Now().Format("2006-01-02"))

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)

	if err := file.Write(ctx.Response().Writer); err != nil {
		c.logger.Error("Не удалось записать XLSX в ответ", zap.Error(err))
		return apperrors.NewInternalError("Не удалось выгрузить отчет", err)
	}
	return nil
}
