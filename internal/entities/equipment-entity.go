package entities

import (
	"cmms-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type Equipment struct {
	ID           uint64      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	SerialNumber null.String `json:"serial_number" db:"serial_number"`
	Category     string      `json:"category" db:"category"`
	Manufacturer null.String `json:"manufacturer" db:"manufacturer"`
	Model        null.String `json:"model" db:"model"`
	Location     null.String `json:"location" db:"location"`

	InstallationDate    null.Time `json:"installation_date" db:"installation_date"`
	Status              string    `json:"status" db:"status"`
	NextMaintenanceDate null.Time `json:"next_maintenance_date" db:"next_maintenance_date"`

	types.BaseEntity
}
