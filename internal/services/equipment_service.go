package services

import (
	"context"

	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
	"cmms-system/internal/repositories"
	"cmms-system/pkg/constants"
	apperrors "cmms-system/pkg/errors"
)

type EquipmentServiceInterface interface {
	GetEquipment(ctx context.Context, limit uint64, offset uint64, status string, category string) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	GetEquipmentHistory(ctx context.Context, id uint64) (*dto.EquipmentHistoryDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

type EquipmentService struct {
	equipmentRepo   repositories.EquipmentRepositoryInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	failureRepo     repositories.FailureRepositoryInterface
	logger          *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	failureRepo repositories.FailureRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo:   equipmentRepo,
		maintenanceRepo: maintenanceRepo,
		failureRepo:     failureRepo,
		logger:          logger,
	}
}

func (s *EquipmentService) GetEquipment(ctx context.Context, limit uint64, offset uint64, status string, category string) ([]entities.Equipment, uint64, error) {
	if status != "" && !constants.IsValidEquipmentStatus(status) {
		return nil, 0, apperrors.NewBadRequestError("Недопустимый статус оборудования")
	}
	return s.equipmentRepo.GetEquipment(ctx, limit, offset, status, category)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return s.equipmentRepo.FindEquipmentByID(ctx, id)
}

// GetEquipmentHistory возвращает карточку оборудования вместе с журналами
// обслуживания и отчетами об отказах.
func (s *EquipmentService) GetEquipmentHistory(ctx context.Context, id uint64) (*dto.EquipmentHistoryDTO, error) {
	eq, err := s.equipmentRepo.FindEquipmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logs, err := s.maintenanceRepo.GetLogsByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	reports, err := s.failureRepo.GetReportsByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.EquipmentHistoryDTO{
		Equipment:       *eq,
		MaintenanceLogs: logs,
		FailureReports:  reports,
	}, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	status := payload.Status
	if status == "" {
		status = constants.EquipmentStatusActive
	}

	eq := &entities.Equipment{
		Name:                payload.Name,
		SerialNumber:        payload.SerialNumber,
		Category:            payload.Category,
		Manufacturer:        payload.Manufacturer,
		Model:               payload.Model,
		Location:            payload.Location,
		InstallationDate:    payload.InstallationDate,
		Status:              status,
		NextMaintenanceDate: payload.NextMaintenanceDate,
	}

	created, err := s.equipmentRepo.CreateEquipment(ctx, eq)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Добавлено оборудование",
		zap.Uint64("equipmentID", created.ID), zap.String("name", created.Name))

	return created, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	eq, err := s.equipmentRepo.FindEquipmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		eq.Name = *payload.Name
	}
	if payload.SerialNumber.Valid {
		eq.SerialNumber = payload.SerialNumber
	}
	if payload.Category != nil {
		eq.Category = *payload.Category
	}
	if payload.Manufacturer.Valid {
		eq.Manufacturer = payload.Manufacturer
	}
	if payload.Model.Valid {
		eq.Model = payload.Model
	}
	if payload.Location.Valid {
		eq.Location = payload.Location
	}
	if payload.InstallationDate.Valid {
		eq.InstallationDate = payload.InstallationDate
	}
	if payload.Status != nil {
		eq.Status = *payload.Status
	}
	if payload.NextMaintenanceDate.Valid {
		eq.NextMaintenanceDate = payload.NextMaintenanceDate
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	if err := s.equipmentRepo.DeleteEquipment(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Удалено оборудование вместе с историей", zap.Uint64("equipmentID", id))
	return nil
}
