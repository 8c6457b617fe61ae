package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-system/pkg/types"
)

type DashboardRepositoryInterface interface {
	GetCountByStatus(ctx context.Context) ([]types.DashboardCountByGroup, error)
	GetUnresolvedFailures(ctx context.Context) (int64, error)
	GetMonthDowntime(ctx context.Context, from time.Time) (float64, error)
	GetDowntimeByEquipment(ctx context.Context) ([]types.DashboardDowntimeByGroup, error)
	GetFailuresByEquipment(ctx context.Context) ([]types.DashboardCountByGroup, error)
	GetDowntimeByMonth(ctx context.Context, months int) ([]types.DashboardChartData, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

// 1. Количество оборудования по статусам.
func (r *DashboardRepository) GetCountByStatus(ctx context.Context) ([]types.DashboardCountByGroup, error) {
	query, args, err := sq.Select("status", "COUNT(id)").
		From("equipment").
		GroupBy("status").
		OrderBy("status").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.DashboardCountByGroup, 0)
	for rows.Next() {
		var item types.DashboardCountByGroup
		if err := rows.Scan(&item.GroupName, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// 2. Нерешенные отказы.
func (r *DashboardRepository) GetUnresolvedFailures(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COUNT(id)").
		From("failure_reports").
		Where(sq.Eq{"resolved": false}).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// 3. Суммарный простой с начала месяца (часы).
func (r *DashboardRepository) GetMonthDowntime(ctx context.Context, from time.Time) (float64, error) {
	query, args, err := sq.Select("COALESCE(SUM(downtime_hours), 0)").
		From("maintenance_logs").
		Where(sq.GtOrEq{"maintenance_date": from}).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

// 4. Простой по единицам оборудования (часы, по журналам обслуживания).
func (r *DashboardRepository) GetDowntimeByEquipment(ctx context.Context) ([]types.DashboardDowntimeByGroup, error) {
	query, args, err := sq.Select("e.name", "COALESCE(SUM(m.downtime_hours), 0) AS hours").
		From("maintenance_logs m").
		Join("equipment e ON m.equipment_id = e.id").
		GroupBy("e.name").
		OrderBy("hours DESC").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.DashboardDowntimeByGroup, 0)
	for rows.Next() {
		var item types.DashboardDowntimeByGroup
		if err := rows.Scan(&item.GroupName, &item.Hours); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// 5. Количество отказов по единицам оборудования.
func (r *DashboardRepository) GetFailuresByEquipment(ctx context.Context) ([]types.DashboardCountByGroup, error) {
	query, args, err := sq.Select("e.name", "COUNT(f.id) AS cnt").
		From("failure_reports f").
		Join("equipment e ON f.equipment_id = e.id").
		GroupBy("e.name").
		OrderBy("cnt DESC").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.DashboardCountByGroup, 0)
	for rows.Next() {
		var item types.DashboardCountByGroup
		if err := rows.Scan(&item.GroupName, &item.Count); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// 6. Простой по месяцам за последние N месяцев.
func (r *DashboardRepository) GetDowntimeByMonth(ctx context.Context, months int) ([]types.DashboardChartData, error) {
	from := time.Now().AddDate(0, -months, 0)

	query, args, err := sq.Select(
		"to_char(maintenance_date, 'YYYY-MM') AS month",
		"COALESCE(SUM(downtime_hours), 0)",
	).
		From("maintenance_logs").
		Where(sq.GtOrEq{"maintenance_date": from}).
		GroupBy("month").
		OrderBy("month").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.DashboardChartData, 0)
	for rows.Next() {
		var item types.DashboardChartData
		if err := rows.Scan(&item.Label, &item.Value); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
