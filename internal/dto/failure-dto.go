package dto

import "github.com/aarondl/null/v8"

type CreateFailureReportDTO struct {
	EquipmentID uint64 `json:"equipment_id" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
	Severity    string `json:"severity" validate:"required,severity"`

	// Формат даты: 2006-01-02. Пустое значение означает сегодня.
	FailureDate   string       `json:"failure_date" validate:"omitempty"`
	DowntimeHours null.Float64 `json:"downtime_hours" validate:"omitempty,gte=0"`
}

type ResolveFailureReportDTO struct {
	Resolved        *bool        `json:"resolved,omitempty"`
	ResolutionNotes null.String  `json:"resolution_notes,omitempty"`
	DowntimeHours   null.Float64 `json:"downtime_hours,omitempty" validate:"omitempty,gte=0"`
}
