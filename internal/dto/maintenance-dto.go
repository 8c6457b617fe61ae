package dto

import "github.com/aarondl/null/v8"

type CreateMaintenanceLogDTO struct {
	EquipmentID     uint64      `json:"equipment_id" validate:"required,gt=0"`
	MaintenanceType string      `json:"maintenance_type" validate:"required,maintenance_type"`
	Description     string      `json:"description" validate:"required"`
	PartsReplaced   null.String `json:"parts_replaced"`

	Cost          null.Float64 `json:"cost" validate:"omitempty,gte=0"`
	DowntimeHours null.Float64 `json:"downtime_hours" validate:"omitempty,gte=0"`

	// Формат даты: 2006-01-02. Пустое значение означает сегодня.
	MaintenanceDate     string `json:"maintenance_date" validate:"omitempty"`
	NextMaintenanceDate string `json:"next_maintenance_date" validate:"omitempty"`
}
