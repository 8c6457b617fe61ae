package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cmms-system/internal/repositories"
	"cmms-system/pkg/config"
	"cmms-system/pkg/types"
	"cmms-system/pkg/utils"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*types.DashboardData, error)
	GetDowntimeReport(ctx context.Context) (*types.DowntimeReport, error)
}

type DashboardService struct {
	repo          repositories.DashboardRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	cfg           *config.ReminderConfig
	logger        *zap.Logger
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	cfg *config.ReminderConfig,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{repo: repo, equipmentRepo: equipmentRepo, cfg: cfg, logger: logger}
}

// GetDashboard собирает агрегаты параллельно. Первая ошибка любой из выборок
// отменяет весь ответ.
func (s *DashboardService) GetDashboard(ctx context.Context) (*types.DashboardData, error) {
	data := &types.DashboardData{}

	now := time.Now().UTC()
	upcomingUntil := now.AddDate(0, 0, s.cfg.UpcomingWindowDays)
	monthStart := utils.FirstDayOfMonth(now)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(7)

	go func() {
		defer wg.Done()
		result, err := s.repo.GetCountByStatus(ctx)
		if err != nil {
			setErr(err)
			return
		}
		data.EquipmentByStatus = result
	}()

	go func() {
		defer wg.Done()
		count, err := s.repo.GetUnresolvedFailures(ctx)
		if err != nil {
			setErr(err)
			return
		}
		data.UnresolvedFailures = count
	}()

	go func() {
		defer wg.Done()
		due, err := s.equipmentRepo.GetDueForMaintenance(ctx, upcomingUntil)
		if err != nil {
			setErr(err)
			return
		}
		upcoming := make([]types.DashboardUpcomingMaintenance, 0, len(due))
		for _, eq := range due {
			upcoming = append(upcoming, types.DashboardUpcomingMaintenance{
				EquipmentID:   eq.ID,
				EquipmentName: eq.Name,
				NextDate:      eq.NextMaintenanceDate.Time.Format("2006-01-02"),
			})
		}
		data.UpcomingMaintenance = upcoming
	}()

	go func() {
		defer wg.Done()
		total, err := s.repo.GetMonthDowntime(ctx, monthStart)
		if err != nil {
			setErr(err)
			return
		}
		data.MonthDowntimeHours = total
	}()

	go func() {
		defer wg.Done()
		result, err := s.repo.GetDowntimeByEquipment(ctx)
		if err != nil {
			setErr(err)
			return
		}
		data.DowntimeByEquipment = result
	}()

	go func() {
		defer wg.Done()
		result, err := s.repo.GetFailuresByEquipment(ctx)
		if err != nil {
			setErr(err)
			return
		}
		data.FailuresByEquipment = result
	}()

	go func() {
		defer wg.Done()
		result, err := s.repo.GetDowntimeByMonth(ctx, 12)
		if err != nil {
			setErr(err)
			return
		}
		data.DowntimeByMonth = result
	}()

	wg.Wait()

	if firstErr != nil {
		s.logger.Error("Не удалось собрать дашборд", zap.Error(firstErr))
		return nil, firstErr
	}

	return data, nil
}

// GetDowntimeReport отдает только простои: сумма за текущий месяц,
// разрез по оборудованию и по месяцам за последний год.
func (s *DashboardService) GetDowntimeReport(ctx context.Context) (*types.DowntimeReport, error) {
	monthStart := utils.FirstDayOfMonth(time.Now().UTC())

	monthTotal, err := s.repo.GetMonthDowntime(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	byEquipment, err := s.repo.GetDowntimeByEquipment(ctx)
	if err != nil {
		return nil, err
	}

	byMonth, err := s.repo.GetDowntimeByMonth(ctx, 12)
	if err != nil {
		return nil, err
	}

	return &types.DowntimeReport{
		MonthDowntimeHours: monthTotal,
		ByEquipment:        byEquipment,
		ByMonth:            byMonth,
	}, nil
}
