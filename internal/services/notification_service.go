// Файл: internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cmms-system/internal/entities"
	"cmms-system/internal/repositories"
	"cmms-system/pkg/constants"
	"cmms-system/pkg/eventbus"
	"cmms-system/pkg/mailer"
)

const notificationDateLayout = "2006-01-02"
const notificationDateTimeLayout = "2006-01-02 15:04"

type NotificationServiceInterface interface {
	// SubscribeToEvents подключает сервис к шине событий.
	SubscribeToEvents(bus *eventbus.Bus)
	SendCriticalFailureAlert(ctx context.Context, report entities.FailureReport, equipment entities.Equipment) error
	SendMaintenanceReminder(ctx context.Context, log entities.MaintenanceLog, equipment entities.Equipment) error
	SendDailySummary(ctx context.Context) error
}

type NotificationService struct {
	userRepo        repositories.UserRepositoryInterface
	failureRepo     repositories.FailureRepositoryInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	mail            mailer.Mailer
	logger          *zap.Logger
}

func NewNotificationService(
	userRepo repositories.UserRepositoryInterface,
	failureRepo repositories.FailureRepositoryInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	mail mailer.Mailer,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		userRepo:        userRepo,
		failureRepo:     failureRepo,
		maintenanceRepo: maintenanceRepo,
		mail:            mail,
		logger:          logger,
	}
}

func (s *NotificationService) SubscribeToEvents(bus *eventbus.Bus) {
	bus.Subscribe(EventFailureReported, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(FailureReportedEvent)
		if !ok {
			return fmt.Errorf("неожиданный тип события: %T", event)
		}
		if e.Report.Severity != constants.SeverityHigh {
			return nil
		}
		return s.SendCriticalFailureAlert(ctx, e.Report, e.Equipment)
	})
}

// SendCriticalFailureAlert рассылает тревогу администраторам. Ошибка отправки
// логируется и не влияет на уже зафиксированный отказ.
func (s *NotificationService) SendCriticalFailureAlert(ctx context.Context, report entities.FailureReport, equipment entities.Equipment) error {
	admins, err := s.userRepo.GetActiveUsersByRole(ctx, constants.RoleAdmin)
	if err != nil {
		s.logger.Error("Не удалось получить список администраторов для тревоги", zap.Error(err))
		return err
	}
	if len(admins) == 0 {
		s.logger.Warn("Нет активных администраторов, тревога не отправлена",
			zap.Uint64("reportID", report.ID))
		return nil
	}

	msg := BuildCriticalFailureAlert(report, equipment)
	msg.To = emailsOf(admins)

	if err := s.mail.Send(msg); err != nil {
		s.logger.Error("Не удалось отправить тревогу об отказе",
			zap.Uint64("reportID", report.ID), zap.Error(err))
		return err
	}

	s.logger.Info("Отправлена тревога об отказе",
		zap.Uint64("reportID", report.ID), zap.Int("recipients", len(admins)))
	return nil
}

// SendMaintenanceReminder рассылает напоминание активным техникам.
func (s *NotificationService) SendMaintenanceReminder(ctx context.Context, log entities.MaintenanceLog, equipment entities.Equipment) error {
	recipients, err := s.userRepo.GetActiveUsersByRole(ctx, constants.RoleTechnician)
	if err != nil {
		s.logger.Error("Не удалось получить получателей напоминания", zap.Error(err))
		return err
	}
	if len(recipients) == 0 {
		s.logger.Warn("Нет активных получателей, напоминание не отправлено",
			zap.Uint64("logID", log.ID))
		return nil
	}

	msg := BuildMaintenanceReminder(log, equipment, time.Now().UTC())
	msg.To = emailsOf(recipients)

	if err := s.mail.Send(msg); err != nil {
		s.logger.Error("Не удалось отправить напоминание об обслуживании",
			zap.Uint64("logID", log.ID), zap.Error(err))
		return err
	}

	s.logger.Info("Отправлено напоминание об обслуживании",
		zap.Uint64("logID", log.ID), zap.Int("recipients", len(recipients)))
	return nil
}

// SendDailySummary собирает и отправляет администраторам сводку за день:
// нерешенные отказы и обслуживание на ближайшие 7 дней.
func (s *NotificationService) SendDailySummary(ctx context.Context) error {
	admins, err := s.userRepo.GetActiveUsersByRole(ctx, constants.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		s.logger.Warn("Нет активных администраторов, сводка не отправлена")
		return nil
	}

	failures, _, err := s.failureRepo.GetReports(ctx, 1000, 0, true, 0)
	if err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	upcoming, err := s.maintenanceRepo.GetUpcoming(ctx, today, today.AddDate(0, 0, 7))
	if err != nil {
		return err
	}

	msg := BuildDailySummary(today, failures, upcoming)
	msg.To = emailsOf(admins)

	if err := s.mail.Send(msg); err != nil {
		s.logger.Error("Не удалось отправить ежедневную сводку", zap.Error(err))
		return err
	}

	s.logger.Info("Отправлена ежедневная сводка", zap.Int("recipients", len(admins)))
	return nil
}

func emailsOf(users []entities.User) []string {
	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	return emails
}

// BuildCriticalFailureAlert формирует письмо о критическом отказе.
func BuildCriticalFailureAlert(report entities.FailureReport, equipment entities.Equipment) mailer.Message {
	var b strings.Builder
	b.WriteString("КРИТИЧЕСКИЙ ОТКАЗ ОБОРУДОВАНИЯ\n\n")
	fmt.Fprintf(&b, "Оборудование: %s\n", equipment.Name)
	fmt.Fprintf(&b, "Категория: %s\n", equipment.Category)
	fmt.Fprintf(&b, "Местоположение: %s\n", equipment.Location.String)
	fmt.Fprintf(&b, "Серийный номер: %s\n\n", equipment.SerialNumber.String)
	b.WriteString("Детали отказа:\n")
	fmt.Fprintf(&b, "- Серьезность: %s\n", report.Severity)
	fmt.Fprintf(&b, "- Описание: %s\n", report.Description)
	fmt.Fprintf(&b, "- Дата фиксации: %s\n\n", report.FailureDate.Format(notificationDateTimeLayout))
	fmt.Fprintf(&b, "Текущий статус: %s\n\n", equipment.Status)
	b.WriteString("ТРЕБУЕТСЯ НЕМЕДЛЕННОЕ ВМЕШАТЕЛЬСТВО\n")

	return mailer.Message{
		Subject: fmt.Sprintf("🚨 КРИТИЧЕСКИЙ ОТКАЗ: %s", equipment.Name),
		Body:    b.String(),
	}
}

// BuildMaintenanceReminder формирует напоминание о плановом обслуживании.
func BuildMaintenanceReminder(log entities.MaintenanceLog, equipment entities.Equipment, now time.Time) mailer.Message {
	daysUntil := 0
	if log.NextMaintenanceDate.Valid {
		daysUntil = int(log.NextMaintenanceDate.Time.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
	}

	var b strings.Builder
	b.WriteString("НАПОМИНАНИЕ О ПЛАНОВОМ ОБСЛУЖИВАНИИ\n\n")
	fmt.Fprintf(&b, "Оборудование: %s\n", equipment.Name)
	fmt.Fprintf(&b, "Категория: %s\n", equipment.Category)
	fmt.Fprintf(&b, "Местоположение: %s\n\n", equipment.Location.String)
	b.WriteString("Детали обслуживания:\n")
	fmt.Fprintf(&b, "- Тип: %s\n", log.MaintenanceType)
	if log.NextMaintenanceDate.Valid {
		fmt.Fprintf(&b, "- Плановая дата: %s\n", log.NextMaintenanceDate.Time.Format(notificationDateLayout))
	}
	fmt.Fprintf(&b, "- Дней до срока: %d\n", daysUntil)
	fmt.Fprintf(&b, "- Последнее обслуживание: %s\n\n", log.MaintenanceDate.Format(notificationDateLayout))
	fmt.Fprintf(&b, "Описание последнего обслуживания:\n%s\n", log.Description)

	return mailer.Message{
		Subject: fmt.Sprintf("📅 Напоминание об обслуживании: %s (через %d дн.)", equipment.Name, daysUntil),
		Body:    b.String(),
	}
}

// BuildDailySummary формирует ежедневную сводку для администраторов.
func BuildDailySummary(today time.Time, failures []entities.FailureReport, upcoming []entities.MaintenanceLog) mailer.Message {
	var b strings.Builder
	b.WriteString("ЕЖЕДНЕВНАЯ СВОДКА ПО ОБОРУДОВАНИЮ\n")
	fmt.Fprintf(&b, "%s\n", today.Format(notificationDateLayout))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(failures) > 0 {
		b.WriteString("НЕРЕШЕННЫЕ ОТКАЗЫ:\n" + strings.Repeat("-", 50) + "\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "• %s\n  Серьезность: %s\n  Описание: %s\n  Зафиксирован: %s\n",
				f.EquipmentName, f.Severity, f.Description, f.FailureDate.Format(notificationDateLayout))
		}
	} else {
		b.WriteString("✅ Нерешенных отказов нет\n")
	}
	b.WriteString("\n")

	if len(upcoming) > 0 {
		b.WriteString("ПРЕДСТОЯЩЕЕ ОБСЛУЖИВАНИЕ (ближайшие 7 дней):\n" + strings.Repeat("-", 50) + "\n")
		for _, m := range upcoming {
			fmt.Fprintf(&b, "• %s\n  Тип: %s\n  Срок: %s\n",
				m.EquipmentName, m.MaintenanceType, m.NextMaintenanceDate.Time.Format(notificationDateLayout))
		}
	} else {
		b.WriteString("✅ Предстоящего обслуживания нет\n")
	}
	b.WriteString("\n")

	b.WriteString("СТАТИСТИКА:\n")
	fmt.Fprintf(&b, "- Нерешенных отказов: %d\n", len(failures))
	fmt.Fprintf(&b, "- Предстоящих работ: %d\n", len(upcoming))

	return mailer.Message{
		Subject: fmt.Sprintf("📊 Ежедневная сводка - %s", today.Format(notificationDateLayout)),
		Body:    b.String(),
	}
}
