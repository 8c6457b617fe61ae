package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
	"cmms-system/internal/repositories"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/eventbus"
	"cmms-system/pkg/utils"
)

type FailureServiceInterface interface {
	GetReports(ctx context.Context, limit uint64, offset uint64, onlyUnresolved bool, equipmentID uint64) ([]entities.FailureReport, uint64, error)
	FindReport(ctx context.Context, id uint64) (*entities.FailureReport, error)
	CreateReport(ctx context.Context, userID uint64, payload dto.CreateFailureReportDTO) (*entities.FailureReport, error)
	ResolveReport(ctx context.Context, id uint64, payload dto.ResolveFailureReportDTO) (*entities.FailureReport, error)
}

type FailureService struct {
	failureRepo   repositories.FailureRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	ruleEngine    RuleEngineServiceInterface
	txManager     repositories.TxManagerInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewFailureService(
	failureRepo repositories.FailureRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	ruleEngine RuleEngineServiceInterface,
	txManager repositories.TxManagerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) FailureServiceInterface {
	return &FailureService{
		failureRepo:   failureRepo,
		equipmentRepo: equipmentRepo,
		ruleEngine:    ruleEngine,
		txManager:     txManager,
		bus:           bus,
		logger:        logger,
	}
}

func (s *FailureService) GetReports(ctx context.Context, limit uint64, offset uint64, onlyUnresolved bool, equipmentID uint64) ([]entities.FailureReport, uint64, error) {
	return s.failureRepo.GetReports(ctx, limit, offset, onlyUnresolved, equipmentID)
}

func (s *FailureService) FindReport(ctx context.Context, id uint64) (*entities.FailureReport, error) {
	return s.failureRepo.FindReportByID(ctx, id)
}

// CreateReport фиксирует отказ. Запись отчета и возможный вывод оборудования
// из строя происходят в одной транзакции, событие публикуется после коммита.
func (s *FailureService) CreateReport(ctx context.Context, userID uint64, payload dto.CreateFailureReportDTO) (*entities.FailureReport, error) {
	failureDate := time.Now().UTC()
	if payload.FailureDate != "" {
		parsed, err := utils.ParseDate(payload.FailureDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Неверный формат даты отказа, ожидается YYYY-MM-DD")
		}
		failureDate = parsed
	}

	report := &entities.FailureReport{
		EquipmentID:   payload.EquipmentID,
		UserID:        userID,
		FailureDate:   failureDate,
		Description:   payload.Description,
		Severity:      payload.Severity,
		Resolved:      false,
		DowntimeHours: payload.DowntimeHours,
	}

	var created *entities.FailureReport
	var equipment *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindEquipmentByIDInTx(ctx, tx, payload.EquipmentID)
		if err != nil {
			return err
		}

		created, err = s.failureRepo.CreateReportInTx(ctx, tx, report)
		if err != nil {
			return err
		}

		newStatus := s.ruleEngine.ApplyFailure(payload.Severity, eq.Status)
		if newStatus != eq.Status {
			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, eq.ID, newStatus); err != nil {
				return err
			}
			eq.Status = newStatus
		}

		equipment = eq
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Зафиксирован отказ оборудования",
		zap.Uint64("reportID", created.ID),
		zap.Uint64("equipmentID", created.EquipmentID),
		zap.String("severity", created.Severity))

	s.bus.Publish(ctx, FailureReportedEvent{Report: *created, Equipment: *equipment})

	return created, nil
}

// ResolveReport закрывает отказ. Статус оборудования при этом не меняется:
// возврат в строй фиксируется отдельной записью обслуживания.
func (s *FailureService) ResolveReport(ctx context.Context, id uint64, payload dto.ResolveFailureReportDTO) (*entities.FailureReport, error) {
	report, err := s.failureRepo.FindReportByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Resolved != nil {
		report.Resolved = *payload.Resolved
	}
	if payload.ResolutionNotes.Valid {
		report.ResolutionNotes = payload.ResolutionNotes
	}
	if payload.DowntimeHours.Valid {
		report.DowntimeHours = payload.DowntimeHours
	}

	if err := s.failureRepo.UpdateReport(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Обновлен отчет об отказе",
		zap.Uint64("reportID", report.ID), zap.Bool("resolved", report.Resolved))

	return report, nil
}
