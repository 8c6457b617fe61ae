package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/repositories"
	apperrors "cmms-system/pkg/errors"
)

type ReportServiceInterface interface {
	GetEquipmentReport(ctx context.Context, equipmentID uint64) (*dto.EquipmentReportDTO, error)
	GetAllEquipmentReports(ctx context.Context) ([]dto.EquipmentReportDTO, error)
	ExportEquipmentReports(ctx context.Context) (*excelize.File, error)
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

func (s *ReportService) GetEquipmentReport(ctx context.Context, equipmentID uint64) (*dto.EquipmentReportDTO, error) {
	return s.reportRepo.GetEquipmentReport(ctx, equipmentID)
}

func (s *ReportService) GetAllEquipmentReports(ctx context.Context) ([]dto.EquipmentReportDTO, error) {
	return s.reportRepo.GetAllEquipmentReports(ctx)
}

// ExportEquipmentReports выгружает сводку по всему оборудованию в XLSX.
func (s *ReportService) ExportEquipmentReports(ctx context.Context) (*excelize.File, error) {
	reports, err := s.reportRepo.GetAllEquipmentReports(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Оборудование"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperrors.NewInternalError("Не удалось создать лист отчета", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Название", "Статус", "Обслуживаний", "Отказов", "Нерешенных отказов", "Затраты", "Простой (часы)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, apperrors.NewInternalError("Не удалось записать заголовок отчета", err)
		}
	}

	for rowIdx, report := range reports {
		values := []interface{}{
			report.EquipmentID,
			report.EquipmentName,
			report.Status,
			report.MaintenanceCount,
			report.FailureCount,
			report.UnresolvedFailures,
			report.TotalCost,
			report.TotalDowntimeHours,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, apperrors.NewInternalError(
					fmt.Sprintf("Не удалось записать строку отчета %d", rowIdx+2), err)
			}
		}
	}

	s.logger.Info("Сформирован XLSX-отчет по оборудованию", zap.Int("rows", len(reports)))
	return f, nil
}
