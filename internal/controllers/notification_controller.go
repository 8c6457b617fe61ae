package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-system/internal/services"
	"cmms-system/pkg/utils"
)

// NotificationController запускает рассылки вручную. В бою эти же методы
// дергает внешний планировщик (cron) раз в сутки.
type NotificationController struct {
	reminderService     services.ReminderServiceInterface
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(
	reminderService services.ReminderServiceInterface,
	notificationService services.NotificationServiceInterface,
	logger *zap.Logger,
) *NotificationController {
	return &NotificationController{
		reminderService:     reminderService,
		notificationService: notificationService,
		logger:              logger,
	}
}

func (c *NotificationController) RunReminders(ctx echo.Context) error {
	sent, err := c.reminderService.RunReminderSweep(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, map[string]int{"sent": sent}, "Напоминания разосланы", http.StatusOK)
}

func (c *NotificationController) RunDailySummary(ctx echo.Context) error {
	if err := c.notificationService.SendDailySummary(ctx.Request().Context()); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Сводка отправлена", http.StatusOK)
}
