package customvalidator

import (
	"cmms-system/pkg/constants"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации.
// Теги используются в DTO: severity, maintenance_type, user_role, equipment_status.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		return constants.IsValidSeverity(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("maintenance_type", func(fl validator.FieldLevel) bool {
		return constants.IsValidMaintenanceType(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return constants.IsValidRole(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("equipment_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		return constants.IsValidEquipmentStatus(s)
	}); err != nil {
		return err
	}

	return nil
}
