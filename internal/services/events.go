package services

import (
	"cmms-system/internal/entities"
)

const (
	EventFailureReported = "failure.reported"
)

// FailureReportedEvent публикуется после успешной фиксации отказа.
type FailureReportedEvent struct {
	Report    entities.FailureReport
	Equipment entities.Equipment
}

func (e FailureReportedEvent) Name() string {
	return EventFailureReported
}
