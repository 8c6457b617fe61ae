package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"cmms-system/pkg/constants"
)

func TestStatusAfterMaintenance(t *testing.T) {
	// Обслуживание возвращает в строй из любого статуса.
	assert.Equal(t, constants.EquipmentStatusActive, StatusAfterMaintenance())
}

func TestStatusAfterFailure(t *testing.T) {
	testCases := []struct {
		name     string
		severity string
		current  string
		expected string
	}{
		{"высокая серьезность выводит из строя", constants.SeverityHigh, constants.EquipmentStatusActive, constants.EquipmentStatusOutOfService},
		{"высокая серьезность при обслуживании", constants.SeverityHigh, constants.EquipmentStatusUnderMaintenance, constants.EquipmentStatusOutOfService},
		{"средняя серьезность не меняет статус", constants.SeverityMedium, constants.EquipmentStatusActive, constants.EquipmentStatusActive},
		{"низкая серьезность не меняет статус", constants.SeverityLow, constants.EquipmentStatusUnderMaintenance, constants.EquipmentStatusUnderMaintenance},
		{"низкая серьезность у выведенного из строя", constants.SeverityLow, constants.EquipmentStatusOutOfService, constants.EquipmentStatusOutOfService},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusAfterFailure(tc.severity, tc.current))
		})
	}
}

func TestRuleEngineService(t *testing.T) {
	engine := NewRuleEngineService(zap.NewNop())

	assert.Equal(t, constants.EquipmentStatusActive, engine.ApplyMaintenance(constants.EquipmentStatusOutOfService))
	assert.Equal(t, constants.EquipmentStatusOutOfService, engine.ApplyFailure(constants.SeverityHigh, constants.EquipmentStatusActive))
	assert.Equal(t, constants.EquipmentStatusActive, engine.ApplyFailure(constants.SeverityMedium, constants.EquipmentStatusActive))
}
