package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-system/internal/dto"
	apperrors "cmms-system/pkg/errors"
)

type ReportRepositoryInterface interface {
	GetEquipmentReport(ctx context.Context, equipmentID uint64) (*dto.EquipmentReportDTO, error)
	GetAllEquipmentReports(ctx context.Context) ([]dto.EquipmentReportDTO, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

// Подзапросы вместо JOIN, иначе агрегаты задваиваются на декартовом
// произведении журналов и отказов.
func reportSelectBuilder() sq.SelectBuilder {
	return sq.Select(
		"e.id",
		"e.name",
		"e.status",
		"(SELECT COUNT(*) FROM maintenance_logs m WHERE m.equipment_id = e.id)",
		"(SELECT COUNT(*) FROM failure_reports f WHERE f.equipment_id = e.id)",
		"(SELECT COUNT(*) FROM failure_reports f WHERE f.equipment_id = e.id AND f.resolved = FALSE)",
		"COALESCE((SELECT SUM(m.cost) FROM maintenance_logs m WHERE m.equipment_id = e.id), 0)",
		"COALESCE((SELECT SUM(m.downtime_hours) FROM maintenance_logs m WHERE m.equipment_id = e.id), 0)",
	).
		From("equipment e")
}

func scanEquipmentReport(row pgx.Row) (*dto.EquipmentReportDTO, error) {
	var report dto.EquipmentReportDTO
	err := row.Scan(
		&report.EquipmentID, &report.EquipmentName, &report.Status,
		&report.MaintenanceCount, &report.FailureCount, &report.UnresolvedFailures,
		&report.TotalCost, &report.TotalDowntimeHours,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) GetEquipmentReport(ctx context.Context, equipmentID uint64) (*dto.EquipmentReportDTO, error) {
	query, args, err := reportSelectBuilder().
		Where(sq.Eq{"e.id": equipmentID}).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	return scanEquipmentReport(r.storage.QueryRow(ctx, query, args...))
}

func (r *ReportRepository) GetAllEquipmentReports(ctx context.Context) ([]dto.EquipmentReportDTO, error) {
	query, args, err := reportSelectBuilder().
		OrderBy("e.name").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]dto.EquipmentReportDTO, 0)
	for rows.Next() {
		report, err := scanEquipmentReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}
