package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-system/internal/entities"
	apperrors "cmms-system/pkg/errors"
)

const equipmentTableRepo = "equipment"
const equipmentSelectFieldsRepo = "id, name, serial_number, category, manufacturer, model, location, installation_date, status, next_maintenance_date, created_at, updated_at"

type EquipmentRepositoryInterface interface {
	GetEquipment(ctx context.Context, limit uint64, offset uint64, status string, category string) ([]entities.Equipment, uint64, error)
	FindEquipmentByID(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, eq *entities.Equipment) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, eq *entities.Equipment) error
	DeleteEquipment(ctx context.Context, id uint64) error

	// Операции внутри транзакции с журналами и отказами.
	FindEquipmentByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	UpdateNextMaintenanceDateInTx(ctx context.Context, tx pgx.Tx, id uint64, next *time.Time) error

	// Оборудование, которому скоро требуется обслуживание.
	GetDueForMaintenance(ctx context.Context, until time.Time) ([]entities.Equipment, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var eq entities.Equipment
	err := row.Scan(
		&eq.ID, &eq.Name, &eq.SerialNumber, &eq.Category,
		&eq.Manufacturer, &eq.Model, &eq.Location,
		&eq.InstallationDate, &eq.Status, &eq.NextMaintenanceDate,
		&eq.CreatedAt, &eq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}
	return &eq, nil
}

func (r *EquipmentRepository) GetEquipment(ctx context.Context, limit uint64, offset uint64, status string, category string) ([]entities.Equipment, uint64, error) {
	conditions := []string{}
	countArgs := []interface{}{}
	if status != "" {
		countArgs = append(countArgs, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(countArgs)))
	}
	if category != "" {
		countArgs = append(countArgs, category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(countArgs)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount uint64
	countQuery := fmt.Sprintf("SELECT COUNT(id) FROM %s %s", equipmentTableRepo, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета оборудования: %w", err)
	}
	if totalCount == 0 {
		return []entities.Equipment{}, 0, nil
	}

	args := append([]interface{}{}, countArgs...)
	query := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, equipmentSelectFieldsRepo, equipmentTableRepo, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0, limit)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *eq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return list, totalCount, nil
}

// findEquipment работает поверх querier, поэтому один и тот же код
// выполняется и на пуле, и внутри pgx.Tx.
func (r *EquipmentRepository) findEquipment(ctx context.Context, q querier, id uint64, forUpdate bool) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", equipmentSelectFieldsRepo, equipmentTableRepo)
	if forUpdate {
		query += " FOR UPDATE"
	}
	return scanEquipment(q.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) FindEquipmentByID(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return r.findEquipment(ctx, r.storage, id, false)
}

func (r *EquipmentRepository) FindEquipmentByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.findEquipment(ctx, tx, id, true)
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, eq *entities.Equipment) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, serial_number, category, manufacturer, model, location, installation_date, status, next_maintenance_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, equipmentTableRepo, equipmentSelectFieldsRepo)

	created, err := scanEquipment(r.storage.QueryRow(ctx, query,
		eq.Name, eq.SerialNumber, eq.Category, eq.Manufacturer, eq.Model,
		eq.Location, eq.InstallationDate, eq.Status, eq.NextMaintenanceDate,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, apperrors.ErrDuplicateKey
		}
		return nil, err
	}
	return created, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, eq *entities.Equipment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, serial_number = $2, category = $3, manufacturer = $4, model = $5,
			location = $6, installation_date = $7, status = $8, next_maintenance_date = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
	`, equipmentTableRepo)

	result, err := r.storage.Exec(ctx, query,
		eq.Name, eq.SerialNumber, eq.Category, eq.Manufacturer, eq.Model,
		eq.Location, eq.InstallationDate, eq.Status, eq.NextMaintenanceDate, eq.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateKey
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEquipment удаляет оборудование. Журналы обслуживания и отчеты об
// отказах удаляются каскадно на уровне БД.
func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", equipmentTableRepo)

	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) setEquipmentColumn(ctx context.Context, q querier, id uint64, column string, value interface{}) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", equipmentTableRepo, column)

	result, err := q.Exec(ctx, query, value, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	return r.setEquipmentColumn(ctx, tx, id, "status", status)
}

func (r *EquipmentRepository) UpdateNextMaintenanceDateInTx(ctx context.Context, tx pgx.Tx, id uint64, next *time.Time) error {
	return r.setEquipmentColumn(ctx, tx, id, "next_maintenance_date", next)
}

// GetDueForMaintenance возвращает оборудование, у которого дата следующего
// обслуживания уже наступила или наступит до указанной границы.
func (r *EquipmentRepository) GetDueForMaintenance(ctx context.Context, until time.Time) ([]entities.Equipment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE next_maintenance_date IS NOT NULL AND next_maintenance_date <= $1
		ORDER BY next_maintenance_date
	`, equipmentSelectFieldsRepo, equipmentTableRepo)

	rows, err := r.storage.Query(ctx, query, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *eq)
	}
	return list, rows.Err()
}
