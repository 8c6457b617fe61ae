package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-system/internal/entities"
	apperrors "cmms-system/pkg/errors"
)

const failureTableRepo = "failure_reports"
const failureSelectFieldsRepo = "f.id, f.equipment_id, f.user_id, f.failure_date, f.description, f.severity, f.resolved, f.resolution_notes, f.downtime_hours, f.created_at, f.updated_at"
const failureJoinFieldsRepo = failureSelectFieldsRepo + ", e.name AS equipment_name, u.username"
const failureJoinClauseRepo = "failure_reports f JOIN equipment e ON f.equipment_id = e.id JOIN users u ON f.user_id = u.id"

type FailureRepositoryInterface interface {
	GetReports(ctx context.Context, limit uint64, offset uint64, onlyUnresolved bool, equipmentID uint64) ([]entities.FailureReport, uint64, error)
	FindReportByID(ctx context.Context, id uint64) (*entities.FailureReport, error)
	CreateReportInTx(ctx context.Context, tx pgx.Tx, report *entities.FailureReport) (*entities.FailureReport, error)
	UpdateReport(ctx context.Context, report *entities.FailureReport) error
	GetReportsByEquipment(ctx context.Context, equipmentID uint64) ([]entities.FailureReport, error)
}

type FailureRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFailureRepository(storage *pgxpool.Pool, logger *zap.Logger) FailureRepositoryInterface {
	return &FailureRepository{storage: storage, logger: logger}
}

func scanFailureReport(row pgx.Row, withJoins bool) (*entities.FailureReport, error) {
	var f entities.FailureReport
	dest := []interface{}{
		&f.ID, &f.EquipmentID, &f.UserID, &f.FailureDate, &f.Description,
		&f.Severity, &f.Resolved, &f.ResolutionNotes, &f.DowntimeHours,
		&f.CreatedAt, &f.UpdatedAt,
	}
	if withJoins {
		dest = append(dest, &f.EquipmentName, &f.Username)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования failure_reports: %w", err)
	}
	return &f, nil
}

func (r *FailureRepository) GetReports(ctx context.Context, limit uint64, offset uint64, onlyUnresolved bool, equipmentID uint64) ([]entities.FailureReport, uint64, error) {
	conditions := []string{}
	countArgs := []interface{}{}
	if onlyUnresolved {
		conditions = append(conditions, "f.resolved = FALSE")
	}
	if equipmentID > 0 {
		conditions = append(conditions, fmt.Sprintf("f.equipment_id = $%d", len(countArgs)+1))
		countArgs = append(countArgs, equipmentID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for _, c := range conditions[1:] {
			whereClause += " AND " + c
		}
	}

	var totalCount uint64
	countQuery := fmt.Sprintf("SELECT COUNT(f.id) FROM %s %s", failureJoinClauseRepo, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета отчетов об отказах: %w", err)
	}
	if totalCount == 0 {
		return []entities.FailureReport{}, 0, nil
	}

	args := append([]interface{}{}, countArgs...)
	query := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY f.failure_date DESC, f.id DESC
		LIMIT $%d OFFSET $%d
	`, failureJoinFieldsRepo, failureJoinClauseRepo, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reports := make([]entities.FailureReport, 0, limit)
	for rows.Next() {
		f, err := scanFailureReport(rows, true)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reports, totalCount, nil
}

func (r *FailureRepository) FindReportByID(ctx context.Context, id uint64) (*entities.FailureReport, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE f.id = $1", failureJoinFieldsRepo, failureJoinClauseRepo)
	return scanFailureReport(r.storage.QueryRow(ctx, query, id), true)
}

func (r *FailureRepository) CreateReportInTx(ctx context.Context, tx pgx.Tx, report *entities.FailureReport) (*entities.FailureReport, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (equipment_id, user_id, failure_date, description, severity, resolved, resolution_notes, downtime_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, equipment_id, user_id, failure_date, description, severity, resolved, resolution_notes, downtime_hours, created_at, updated_at
	`, failureTableRepo)

	created, err := scanFailureReport(tx.QueryRow(ctx, query,
		report.EquipmentID, report.UserID, report.FailureDate, report.Description,
		report.Severity, report.Resolved, report.ResolutionNotes, report.DowntimeHours,
	), false)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return created, nil
}

func (r *FailureRepository) UpdateReport(ctx context.Context, report *entities.FailureReport) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET resolved = $1, resolution_notes = $2, downtime_hours = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, failureTableRepo)

	result, err := r.storage.Exec(ctx, query,
		report.Resolved, report.ResolutionNotes, report.DowntimeHours, report.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *FailureRepository) GetReportsByEquipment(ctx context.Context, equipmentID uint64) ([]entities.FailureReport, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE f.equipment_id = $1
		ORDER BY f.failure_date DESC, f.id DESC
	`, failureJoinFieldsRepo, failureJoinClauseRepo)

	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]entities.FailureReport, 0)
	for rows.Next() {
		f, err := scanFailureReport(rows, true)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *f)
	}
	return reports, rows.Err()
}
