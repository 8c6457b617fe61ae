package services

import (
	"go.uber.org/zap"

	"cmms-system/pkg/constants"
)

// StatusAfterMaintenance возвращает статус оборудования после выполненного
// обслуживания. Обслуживание всегда возвращает оборудование в строй.
func StatusAfterMaintenance() string {
	return constants.EquipmentStatusActive
}

// StatusAfterFailure возвращает статус оборудования после зафиксированного
// отказа. Только отказ высокой серьезности выводит оборудование из строя,
// остальные не меняют текущий статус.
func StatusAfterFailure(severity string, current string) string {
	if severity == constants.SeverityHigh {
		return constants.EquipmentStatusOutOfService
	}
	return current
}

type RuleEngineServiceInterface interface {
	ApplyMaintenance(current string) string
	ApplyFailure(severity string, current string) string
}

type RuleEngineService struct {
	logger *zap.Logger
}

func NewRuleEngineService(logger *zap.Logger) RuleEngineServiceInterface {
	return &RuleEngineService{logger: logger}
}

func (s *RuleEngineService) ApplyMaintenance(current string) string {
	next := StatusAfterMaintenance()
	if next != current {
		s.logger.Debug("Смена статуса оборудования после обслуживания",
			zap.String("from", current), zap.String("to", next))
	}
	return next
}

func (s *RuleEngineService) ApplyFailure(severity string, current string) string {
	next := StatusAfterFailure(severity, current)
	if next != current {
		s.logger.Debug("Смена статуса оборудования после отказа",
			zap.String("severity", severity),
			zap.String("from", current), zap.String("to", next))
	}
	return next
}
