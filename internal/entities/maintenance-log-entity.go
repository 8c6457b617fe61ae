package entities

import (
	"time"

	"cmms-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type MaintenanceLog struct {
	ID          uint64 `json:"id" db:"id"`
	EquipmentID uint64 `json:"equipment_id" db:"equipment_id"`
	UserID      uint64 `json:"user_id" db:"user_id"`

	MaintenanceType string      `json:"maintenance_type" db:"maintenance_type"`
	Description     string      `json:"description" db:"description"`
	PartsReplaced   null.String `json:"parts_replaced" db:"parts_replaced"`

	Cost          null.Float64 `json:"cost" db:"cost"`
	DowntimeHours null.Float64 `json:"downtime_hours" db:"downtime_hours"`

	MaintenanceDate     time.Time `json:"maintenance_date" db:"maintenance_date"`
	NextMaintenanceDate null.Time `json:"next_maintenance_date" db:"next_maintenance_date"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице)
	EquipmentName string `json:"equipment_name,omitempty" db:"-"`
	Username      string `json:"username,omitempty" db:"-"`
}
