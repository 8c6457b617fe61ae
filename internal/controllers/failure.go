package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/services"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/utils"
)

type FailureController struct {
	failureService services.FailureServiceInterface
	logger         *zap.Logger
}

func NewFailureController(failureService services.FailureServiceInterface, logger *zap.Logger) *FailureController {
	return &FailureController{failureService: failureService, logger: logger}
}

func (c *FailureController) GetReports(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())
	onlyUnresolved := ctx.QueryParam("unresolved") == "true"

	var equipmentID uint64
	if raw := ctx.QueryParam("equipment_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewBadRequestError("Неверный формат equipment_id"), c.logger)
		}
		equipmentID = parsed
	}

	reports, total, err := c.failureService.GetReports(ctx.Request().Context(), params.Limit, params.Offset, onlyUnresolved, equipmentID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, reports, "Отчеты об отказах успешно получены", http.StatusOK, total)
}

func (c *FailureController) FindReport(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.failureService.FindReport(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, report, "Отчет об отказе найден", http.StatusOK)
}

func (c *FailureController) CreateReport(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateFailureReportDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateReport: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.failureService.CreateReport(ctx.Request().Context(), userID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, report, "Отказ успешно зафиксирован", http.StatusCreated)
}

func (c *FailureController) ResolveReport(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ResolveFailureReportDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.failureService.ResolveReport(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, report, "Отчет об отказе обновлен", http.StatusOK)
}
