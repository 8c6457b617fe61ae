package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-system/internal/entities"
	"cmms-system/pkg/config"
	"cmms-system/pkg/constants"
	"cmms-system/pkg/types"
)

type fakeDashboardRepo struct{}

func (r *fakeDashboardRepo) GetCountByStatus(_ context.Context) ([]types.DashboardCountByGroup, error) {
	return []types.DashboardCountByGroup{{GroupName: constants.EquipmentStatusActive, Count: 2}}, nil
}
func (r *fakeDashboardRepo) GetUnresolvedFailures(_ context.Context) (int64, error) {
	return 1, nil
}
func (r *fakeDashboardRepo) GetMonthDowntime(_ context.Context, _ time.Time) (float64, error) {
	return 6.5, nil
}
func (r *fakeDashboardRepo) GetDowntimeByEquipment(_ context.Context) ([]types.DashboardDowntimeByGroup, error) {
	return []types.DashboardDowntimeByGroup{{GroupName: "Токарный станок ТВ-320", Hours: 6.5}}, nil
}
func (r *fakeDashboardRepo) GetFailuresByEquipment(_ context.Context) ([]types.DashboardCountByGroup, error) {
	return []types.DashboardCountByGroup{{GroupName: "Токарный станок ТВ-320", Count: 1}}, nil
}
func (r *fakeDashboardRepo) GetDowntimeByMonth(_ context.Context, _ int) ([]types.DashboardChartData, error) {
	return []types.DashboardChartData{{Label: "2025-03", Value: 6.5}}, nil
}

// Раздел "предстоящее обслуживание" строится из оборудования с подошедшей
// датой следующего обслуживания.
func TestGetDashboardUpcomingFromDueEquipment(t *testing.T) {
	nextDate := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	eq := testEquipment()
	eq.NextMaintenanceDate = null.TimeFrom(nextDate)
	equipmentRepo := &fakeEquipmentRepo{due: []entities.Equipment{eq}}
	cfg := &config.ReminderConfig{LookAheadDays: 7, UpcomingWindowDays: 30}

	svc := NewDashboardService(&fakeDashboardRepo{}, equipmentRepo, cfg, zap.NewNop())

	data, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, data.UpcomingMaintenance, 1)
	assert.Equal(t, eq.ID, data.UpcomingMaintenance[0].EquipmentID)
	assert.Equal(t, eq.Name, data.UpcomingMaintenance[0].EquipmentName)
	assert.Equal(t, "2025-03-20", data.UpcomingMaintenance[0].NextDate)

	assert.Equal(t, int64(1), data.UnresolvedFailures)
	assert.InDelta(t, 6.5, data.MonthDowntimeHours, 0.001)
	require.Len(t, data.EquipmentByStatus, 1)
}

func TestGetDowntimeReport(t *testing.T) {
	cfg := &config.ReminderConfig{LookAheadDays: 7, UpcomingWindowDays: 30}
	svc := NewDashboardService(&fakeDashboardRepo{}, &fakeEquipmentRepo{}, cfg, zap.NewNop())

	report, err := svc.GetDowntimeReport(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 6.5, report.MonthDowntimeHours, 0.001)
	require.Len(t, report.ByEquipment, 1)
	require.Len(t, report.ByMonth, 1)
	assert.Equal(t, "2025-03", report.ByMonth[0].Label)
}
