package constants

// Роли пользователей
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
)

// Статусы оборудования
const (
	EquipmentStatusActive           = "Active"
	EquipmentStatusUnderMaintenance = "Under Maintenance"
	EquipmentStatusOutOfService     = "Out of Service"
)

// Типы обслуживания
const (
	MaintenancePreventive = "Preventive"
	MaintenanceCorrective = "Corrective"
)

// Критичность отказа. Только High запускает автоматические побочные эффекты.
const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTechnician
}

func IsValidEquipmentStatus(status string) bool {
	switch status {
	case EquipmentStatusActive, EquipmentStatusUnderMaintenance, EquipmentStatusOutOfService:
		return true
	}
	return false
}

func IsValidMaintenanceType(mt string) bool {
	return mt == MaintenancePreventive || mt == MaintenanceCorrective
}

func IsValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}
