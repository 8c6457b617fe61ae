package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name         string      `json:"name" validate:"required,max=120"`
	SerialNumber null.String `json:"serial_number" validate:"omitempty,max=120"`
	Category     string      `json:"category" validate:"required,max=80"`
	Manufacturer null.String `json:"manufacturer" validate:"omitempty,max=120"`
	Model        null.String `json:"model" validate:"omitempty,max=120"`
	Location     null.String `json:"location" validate:"omitempty,max=120"`

	InstallationDate    null.Time `json:"installation_date"`
	Status              string    `json:"status" validate:"equipment_status"`
	NextMaintenanceDate null.Time `json:"next_maintenance_date"`
}

type UpdateEquipmentDTO struct {
	Name         *string     `json:"name,omitempty"          validate:"omitempty,max=120"`
	SerialNumber null.String `json:"serial_number,omitempty" validate:"omitempty,max=120"`
	Category     *string     `json:"category,omitempty"      validate:"omitempty,max=80"`
	Manufacturer null.String `json:"manufacturer,omitempty"  validate:"omitempty,max=120"`
	Model        null.String `json:"model,omitempty"         validate:"omitempty,max=120"`
	Location     null.String `json:"location,omitempty"      validate:"omitempty,max=120"`

	InstallationDate    null.Time `json:"installation_date,omitempty"`
	Status              *string   `json:"status,omitempty" validate:"omitempty,equipment_status"`
	NextMaintenanceDate null.Time `json:"next_maintenance_date,omitempty"`
}

type ShortEquipmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
