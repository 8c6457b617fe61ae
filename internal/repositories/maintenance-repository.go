package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-system/internal/entities"
	apperrors "cmms-system/pkg/errors"
)

const maintenanceTableRepo = "maintenance_logs"
const maintenanceSelectFieldsRepo = "m.id, m.equipment_id, m.user_id, m.maintenance_type, m.description, m.parts_replaced, m.cost, m.downtime_hours, m.maintenance_date, m.next_maintenance_date, m.created_at, m.updated_at"
const maintenanceJoinFieldsRepo = maintenanceSelectFieldsRepo + ", e.name AS equipment_name, u.username"
const maintenanceJoinClauseRepo = "maintenance_logs m JOIN equipment e ON m.equipment_id = e.id JOIN users u ON m.user_id = u.id"

type MaintenanceRepositoryInterface interface {
	GetLogs(ctx context.Context, limit uint64, offset uint64, equipmentID uint64) ([]entities.MaintenanceLog, uint64, error)
	FindLogByID(ctx context.Context, id uint64) (*entities.MaintenanceLog, error)
	CreateLogInTx(ctx context.Context, tx pgx.Tx, log *entities.MaintenanceLog) (*entities.MaintenanceLog, error)
	GetLogsByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceLog, error)
	GetUpcoming(ctx context.Context, from time.Time, until time.Time) ([]entities.MaintenanceLog, error)
}

type MaintenanceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRepositoryInterface {
	return &MaintenanceRepository{storage: storage, logger: logger}
}

func scanMaintenanceLog(row pgx.Row, withJoins bool) (*entities.MaintenanceLog, error) {
	var m entities.MaintenanceLog
	dest := []interface{}{
		&m.ID, &m.EquipmentID, &m.UserID, &m.MaintenanceType, &m.Description,
		&m.PartsReplaced, &m.Cost, &m.DowntimeHours,
		&m.MaintenanceDate, &m.NextMaintenanceDate,
		&m.CreatedAt, &m.UpdatedAt,
	}
	if withJoins {
		dest = append(dest, &m.EquipmentName, &m.Username)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования maintenance_logs: %w", err)
	}
	return &m, nil
}

func (r *MaintenanceRepository) GetLogs(ctx context.Context, limit uint64, offset uint64, equipmentID uint64) ([]entities.MaintenanceLog, uint64, error) {
	whereClause := ""
	countArgs := []interface{}{}
	if equipmentID > 0 {
		whereClause = "WHERE m.equipment_id = $1"
		countArgs = append(countArgs, equipmentID)
	}

	var totalCount uint64
	countQuery := fmt.Sprintf("SELECT COUNT(m.id) FROM %s %s", maintenanceJoinClauseRepo, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета журналов обслуживания: %w", err)
	}
	if totalCount == 0 {
		return []entities.MaintenanceLog{}, 0, nil
	}

	args := append([]interface{}{}, countArgs...)
	query := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY m.maintenance_date DESC, m.id DESC
		LIMIT $%d OFFSET $%d
	`, maintenanceJoinFieldsRepo, maintenanceJoinClauseRepo, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := make([]entities.MaintenanceLog, 0, limit)
	for rows.Next() {
		m, err := scanMaintenanceLog(rows, true)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return logs, totalCount, nil
}

func (r *MaintenanceRepository) FindLogByID(ctx context.Context, id uint64) (*entities.MaintenanceLog, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE m.id = $1", maintenanceJoinFieldsRepo, maintenanceJoinClauseRepo)
	return scanMaintenanceLog(r.storage.QueryRow(ctx, query, id), true)
}

func (r *MaintenanceRepository) CreateLogInTx(ctx context.Context, tx pgx.Tx, log *entities.MaintenanceLog) (*entities.MaintenanceLog, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (equipment_id, user_id, maintenance_type, description, parts_replaced, cost, downtime_hours, maintenance_date, next_maintenance_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, equipment_id, user_id, maintenance_type, description, parts_replaced, cost, downtime_hours, maintenance_date, next_maintenance_date, created_at, updated_at
	`, maintenanceTableRepo)

	created, err := scanMaintenanceLog(tx.QueryRow(ctx, query,
		log.EquipmentID, log.UserID, log.MaintenanceType, log.Description,
		log.PartsReplaced, log.Cost, log.DowntimeHours,
		log.MaintenanceDate, log.NextMaintenanceDate,
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

func (r *MaintenanceRepository) GetLogsByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceLog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE m.equipment_id = $1
		ORDER BY m.maintenance_date DESC, m.id DESC
	`, maintenanceJoinFieldsRepo, maintenanceJoinClauseRepo)

	rows, err := r.storage.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entities.MaintenanceLog, 0)
	for rows.Next() {
		m, err := scanMaintenanceLog(rows, true)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *m)
	}
	return logs, rows.Err()
}

// GetUpcoming возвращает журналы, у которых дата следующего обслуживания
// попадает в окно [from, until]. Используется рассылкой напоминаний.
func (r *MaintenanceRepository) GetUpcoming(ctx context.Context, from time.Time, until time.Time) ([]entities.MaintenanceLog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE m.next_maintenance_date IS NOT NULL
			AND m.next_maintenance_date >= $1
			AND m.next_maintenance_date <= $2
		ORDER BY m.next_maintenance_date
	`, maintenanceJoinFieldsRepo, maintenanceJoinClauseRepo)

	rows, err := r.storage.Query(ctx, query, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entities.MaintenanceLog, 0)
	for rows.Next() {
		m, err := scanMaintenanceLog(rows, true)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *m)
	}
	return logs, rows.Err()
}
