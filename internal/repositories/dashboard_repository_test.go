package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-system/pkg/constants"
	"cmms-system/pkg/utils"
)

func seedMaintenanceLog(t *testing.T, pool *pgxpool.Pool, equipmentID, userID uint64, date time.Time, downtime float64) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO maintenance_logs (equipment_id, user_id, maintenance_type, description, downtime_hours, maintenance_date)
		 VALUES ($1, $2, $3, 'Плановое обслуживание', $4, $5)`,
		equipmentID, userID, constants.MaintenancePreventive, downtime, date)
	require.NoError(t, err)
}

// Простой считается строго с начала месяца: запись за час до границы
// в сумму не попадает.
func TestDashboardRepository_Integration_MonthDowntime(t *testing.T) {
	require.NotNil(t, testPool, "testPool не инициализирован")
	cleanupTables(t, testPool)
	ctx := context.Background()

	userID := seedTechnician(t, testPool)
	equipmentRepo := NewEquipmentRepository(testPool, zap.NewNop())
	eq, err := equipmentRepo.CreateEquipment(ctx, newTestEquipment("Пресс ПГ-60", "PG-60-001"))
	require.NoError(t, err)

	firstOfMonth := utils.FirstDayOfMonth(time.Now().UTC())
	seedMaintenanceLog(t, testPool, eq.ID, userID, firstOfMonth.Add(-time.Hour), 4.0)
	seedMaintenanceLog(t, testPool, eq.ID, userID, firstOfMonth, 2.5)
	seedMaintenanceLog(t, testPool, eq.ID, userID, firstOfMonth.Add(time.Hour), 1.5)

	repo := NewDashboardRepository(testPool, zap.NewNop())

	total, err := repo.GetMonthDowntime(ctx, firstOfMonth)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, total, 0.001)
}

func TestDashboardRepository_Integration_Aggregates(t *testing.T) {
	cleanupTables(t, testPool)
	ctx := context.Background()

	userID := seedTechnician(t, testPool)
	equipmentRepo := NewEquipmentRepository(testPool, zap.NewNop())
	lathe, err := equipmentRepo.CreateEquipment(ctx, newTestEquipment("Токарный станок ТВ-320", "TV-320-001"))
	require.NoError(t, err)
	press, err := equipmentRepo.CreateEquipment(ctx, newTestEquipment("Пресс ПГ-60", "PG-60-001"))
	require.NoError(t, err)

	now := time.Now().UTC()
	seedMaintenanceLog(t, testPool, lathe.ID, userID, now.AddDate(0, 0, -1), 3.0)
	seedMaintenanceLog(t, testPool, lathe.ID, userID, now.AddDate(0, 0, -2), 2.0)
	seedMaintenanceLog(t, testPool, press.ID, userID, now.AddDate(0, 0, -3), 1.0)

	_, err = testPool.Exec(ctx,
		`INSERT INTO failure_reports (equipment_id, user_id, failure_date, description, severity, resolved)
		 VALUES ($1, $2, $3, 'Перегрев', $4, FALSE), ($5, $2, $3, 'Устранено', $6, TRUE)`,
		lathe.ID, userID, now, constants.SeverityHigh, press.ID, constants.SeverityLow)
	require.NoError(t, err)

	repo := NewDashboardRepository(testPool, zap.NewNop())

	t.Run("unresolved failures", func(t *testing.T) {
		count, err := repo.GetUnresolvedFailures(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("downtime by equipment", func(t *testing.T) {
		items, err := repo.GetDowntimeByEquipment(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		// Сортировка по убыванию часов.
		assert.Equal(t, "Токарный станок ТВ-320", items[0].GroupName)
		assert.InDelta(t, 5.0, items[0].Hours, 0.001)
		assert.Equal(t, "Пресс ПГ-60", items[1].GroupName)
		assert.InDelta(t, 1.0, items[1].Hours, 0.001)
	})

	t.Run("count by status", func(t *testing.T) {
		items, err := repo.GetCountByStatus(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, constants.EquipmentStatusActive, items[0].GroupName)
		assert.Equal(t, int64(2), items[0].Count)
	})
}
