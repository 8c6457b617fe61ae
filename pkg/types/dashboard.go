package types

// Типы агрегатов для сводного дашборда.

type DashboardCountByGroup struct {
	GroupName string `json:"group_name" db:"group_name"`
	Count     int64  `json:"count" db:"count"`
}

type DashboardDowntimeByGroup struct {
	GroupName string  `json:"group_name" db:"group_name"`
	Hours     float64 `json:"hours" db:"hours"`
}

type DashboardChartData struct {
	Label string  `json:"label" db:"label"`
	Value float64 `json:"value" db:"value"`
}

type DashboardUpcomingMaintenance struct {
	EquipmentID   uint64 `json:"equipment_id" db:"equipment_id"`
	EquipmentName string `json:"equipment_name" db:"equipment_name"`
	NextDate      string `json:"next_date" db:"next_date"`
}

// DowntimeReport — срез простоев отдельно от общего дашборда.
type DowntimeReport struct {
	MonthDowntimeHours float64                    `json:"month_downtime_hours"`
	ByEquipment        []DashboardDowntimeByGroup `json:"by_equipment"`
	ByMonth            []DashboardChartData       `json:"by_month"`
}

type DashboardData struct {
	EquipmentByStatus   []DashboardCountByGroup        `json:"equipment_by_status"`
	UnresolvedFailures  int64                          `json:"unresolved_failures"`
	UpcomingMaintenance []DashboardUpcomingMaintenance `json:"upcoming_maintenance"`
	MonthDowntimeHours  float64                        `json:"month_downtime_hours"`
	DowntimeByEquipment []DashboardDowntimeByGroup     `json:"downtime_by_equipment"`
	FailuresByEquipment []DashboardCountByGroup        `json:"failures_by_equipment"`
	DowntimeByMonth     []DashboardChartData           `json:"downtime_by_month"`
}
