package entities

import (
	"time"

	"cmms-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type FailureReport struct {
	ID          uint64 `json:"id" db:"id"`
	EquipmentID uint64 `json:"equipment_id" db:"equipment_id"`
	UserID      uint64 `json:"user_id" db:"user_id"`

	FailureDate time.Time `json:"failure_date" db:"failure_date"`
	Description string    `json:"description" db:"description"`
	Severity    string    `json:"severity" db:"severity"`

	Resolved        bool         `json:"resolved" db:"resolved"`
	ResolutionNotes null.String  `json:"resolution_notes" db:"resolution_notes"`
	DowntimeHours   null.Float64 `json:"downtime_hours" db:"downtime_hours"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице)
	EquipmentName string `json:"equipment_name,omitempty" db:"-"`
	Username      string `json:"username,omitempty" db:"-"`
}
