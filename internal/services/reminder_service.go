package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cmms-system/internal/repositories"
	"cmms-system/pkg/config"
)

// reminderMarkerTTL держит отметку об отправке дольше суток, чтобы повторный
// запуск обхода в тот же день не дублировал письма.
const reminderMarkerTTL = 48 * time.Hour

type ReminderServiceInterface interface {
	RunReminderSweep(ctx context.Context) (int, error)
}

type ReminderService struct {
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	cacheRepo       repositories.CacheRepositoryInterface
	notifications   NotificationServiceInterface
	cfg             *config.ReminderConfig
	logger          *zap.Logger
}

func NewReminderService(
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	notifications NotificationServiceInterface,
	cfg *config.ReminderConfig,
	logger *zap.Logger,
) ReminderServiceInterface {
	return &ReminderService{
		maintenanceRepo: maintenanceRepo,
		equipmentRepo:   equipmentRepo,
		cacheRepo:       cacheRepo,
		notifications:   notifications,
		cfg:             cfg,
		logger:          logger,
	}
}

func reminderMarkerKey(logID uint64, date string) string {
	return fmt.Sprintf("reminder_sent:%d:%s", logID, date)
}

// RunReminderSweep обходит журналы с приближающимся сроком обслуживания и
// рассылает напоминания. Отметка в кеше гарантирует не больше одного письма
// на журнал в сутки. Возвращает количество отправленных напоминаний.
func (s *ReminderService) RunReminderSweep(ctx context.Context) (int, error) {
	runID := uuid.New().String()
	logger := s.logger.With(zap.String("runID", runID))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	until := today.AddDate(0, 0, s.cfg.LookAheadDays)

	logs, err := s.maintenanceRepo.GetUpcoming(ctx, today, until)
	if err != nil {
		return 0, fmt.Errorf("не удалось получить предстоящее обслуживание: %w", err)
	}

	logger.Info("Запущен обход напоминаний",
		zap.Int("candidates", len(logs)),
		zap.Int("lookahead_days", s.cfg.LookAheadDays))

	sent := 0
	for _, log := range logs {
		markerKey := reminderMarkerKey(log.ID, today.Format("2006-01-02"))
		acquired, err := s.cacheRepo.SetNX(ctx, markerKey, runID, reminderMarkerTTL)
		if err != nil {
			logger.Error("Не удалось поставить отметку напоминания",
				zap.Uint64("logID", log.ID), zap.Error(err))
			continue
		}
		if !acquired {
			// Напоминание по этому журналу сегодня уже уходило.
			continue
		}

		equipment, err := s.equipmentRepo.FindEquipmentByID(ctx, log.EquipmentID)
		if err != nil {
			logger.Error("Не удалось получить оборудование для напоминания",
				zap.Uint64("equipmentID", log.EquipmentID), zap.Error(err))
			continue
		}

		if err := s.notifications.SendMaintenanceReminder(ctx, log, *equipment); err != nil {
			// Отметку снимаем, чтобы следующий запуск повторил отправку.
			_ = s.cacheRepo.Del(ctx, markerKey)
			continue
		}
		sent++
	}

	logger.Info("Обход напоминаний завершен", zap.Int("sent", sent))
	return sent, nil
}
