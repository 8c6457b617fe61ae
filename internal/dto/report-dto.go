package dto

import (
	"cmms-system/internal/entities"
)

// EquipmentHistoryDTO — карточка оборудования с полной историей.
type EquipmentHistoryDTO struct {
	Equipment       entities.Equipment        `json:"equipment"`
	MaintenanceLogs []entities.MaintenanceLog `json:"maintenance_logs"`
	FailureReports  []entities.FailureReport  `json:"failure_reports"`
}

// EquipmentReportDTO — сводка по одной единице оборудования.
type EquipmentReportDTO struct {
	EquipmentID        uint64  `json:"equipment_id"`
	EquipmentName      string  `json:"equipment_name"`
	Status             string  `json:"status"`
	MaintenanceCount   int64   `json:"maintenance_count"`
	FailureCount       int64   `json:"failure_count"`
	UnresolvedFailures int64   `json:"unresolved_failures"`
	TotalCost          float64 `json:"total_cost"`
	TotalDowntimeHours float64 `json:"total_downtime_hours"`
}
