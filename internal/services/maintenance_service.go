package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
	"cmms-system/internal/repositories"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/utils"
)

type MaintenanceServiceInterface interface {
	GetLogs(ctx context.Context, limit uint64, offset uint64, equipmentID uint64) ([]entities.MaintenanceLog, uint64, error)
	FindLog(ctx context.Context, id uint64) (*entities.MaintenanceLog, error)
	CreateLog(ctx context.Context, userID uint64, payload dto.CreateMaintenanceLogDTO) (*entities.MaintenanceLog, error)
}

type MaintenanceService struct {
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	ruleEngine      RuleEngineServiceInterface
	txManager       repositories.TxManagerInterface
	logger          *zap.Logger
}

func NewMaintenanceService(
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	ruleEngine RuleEngineServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) MaintenanceServiceInterface {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		equipmentRepo:   equipmentRepo,
		ruleEngine:      ruleEngine,
		txManager:       txManager,
		logger:          logger,
	}
}

func (s *MaintenanceService) GetLogs(ctx context.Context, limit uint64, offset uint64, equipmentID uint64) ([]entities.MaintenanceLog, uint64, error) {
	return s.maintenanceRepo.GetLogs(ctx, limit, offset, equipmentID)
}

func (s *MaintenanceService) FindLog(ctx context.Context, id uint64) (*entities.MaintenanceLog, error) {
	return s.maintenanceRepo.FindLogByID(ctx, id)
}

// CreateLog фиксирует выполненное обслуживание. Запись журнала и смена
// статуса оборудования происходят в одной транзакции.
func (s *MaintenanceService) CreateLog(ctx context.Context, userID uint64, payload dto.CreateMaintenanceLogDTO) (*entities.MaintenanceLog, error) {
	maintenanceDate := time.Now().UTC()
	if payload.MaintenanceDate != "" {
		parsed, err := utils.ParseDate(payload.MaintenanceDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Неверный формат даты обслуживания, ожидается YYYY-MM-DD")
		}
		maintenanceDate = parsed
	}

	var nextDate null.Time
	if payload.NextMaintenanceDate != "" {
		parsed, err := utils.ParseDate(payload.NextMaintenanceDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Неверный формат даты следующего обслуживания, ожидается YYYY-MM-DD")
		}
		nextDate = null.TimeFrom(parsed)
	}

	log := &entities.MaintenanceLog{
		EquipmentID:         payload.EquipmentID,
		UserID:              userID,
		MaintenanceType:     payload.MaintenanceType,
		Description:         payload.Description,
		PartsReplaced:       payload.PartsReplaced,
		Cost:                payload.Cost,
		DowntimeHours:       payload.DowntimeHours,
		MaintenanceDate:     maintenanceDate,
		NextMaintenanceDate: nextDate,
	}

	var created *entities.MaintenanceLog
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindEquipmentByIDInTx(ctx, tx, payload.EquipmentID)
		if err != nil {
			return err
		}

		created, err = s.maintenanceRepo.CreateLogInTx(ctx, tx, log)
		if err != nil {
			return err
		}

		newStatus := s.ruleEngine.ApplyMaintenance(eq.Status)
		if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, eq.ID, newStatus); err != nil {
			return err
		}

		if nextDate.Valid {
			next := nextDate.Time
			if err := s.equipmentRepo.UpdateNextMaintenanceDateInTx(ctx, tx, eq.ID, &next); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Записано обслуживание",
		zap.Uint64("logID", created.ID),
		zap.Uint64("equipmentID", created.EquipmentID),
		zap.String("type", created.MaintenanceType))

	return created, nil
}
