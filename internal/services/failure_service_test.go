package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-system/internal/dto"
	"cmms-system/internal/entities"
	"cmms-system/pkg/constants"
	"cmms-system/pkg/eventbus"
)

// fakeTxManager выполняет fn без настоящей транзакции и считает исходы.
type fakeTxManager struct {
	commits   int
	rollbacks int
}

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	if err := fn(nil); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

// Недоступный SMTP не должен мешать фиксации отказа: письмо уходит уже после
// коммита, и ошибка доставки остается внутри обработчика события.
func TestCreateReportSurvivesMailerFailure(t *testing.T) {
	ctx := context.Background()

	userRepo := &fakeUserRepo{users: []entities.User{
		{ID: 1, Email: "admin@cmms.local", Role: constants.RoleAdmin, IsActive: true},
	}}
	mail := &fakeMailer{failing: true, done: make(chan struct{}, 1)}
	bus := eventbus.New(zap.NewNop())
	notifications := NewNotificationService(userRepo, &fakeFailureRepo{}, &fakeMaintenanceRepo{}, mail, zap.NewNop())
	notifications.SubscribeToEvents(bus)

	eq := testEquipment()
	eq.Status = constants.EquipmentStatusActive
	equipmentRepo := &fakeEquipmentRepo{byID: map[uint64]entities.Equipment{1: eq}}
	failureRepo := &fakeFailureRepo{}
	txManager := &fakeTxManager{}

	svc := NewFailureService(failureRepo, equipmentRepo, NewRuleEngineService(zap.NewNop()), txManager, bus, zap.NewNop())

	created, err := svc.CreateReport(ctx, 1, dto.CreateFailureReportDTO{
		EquipmentID: 1,
		Description: "Сгорел двигатель",
		Severity:    constants.SeverityHigh,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.Resolved)

	// Транзакция закоммичена: отчет записан, оборудование выведено из строя.
	assert.Equal(t, 1, txManager.commits)
	assert.Zero(t, txManager.rollbacks)
	require.Len(t, failureRepo.created, 1)
	assert.Equal(t, constants.EquipmentStatusOutOfService, equipmentRepo.statusUpdates[1])

	// Обработчик события попытался отправить письмо и получил отказ SMTP.
	select {
	case <-mail.done:
	case <-time.After(2 * time.Second):
		t.Fatal("обработчик события не был вызван")
	}
	assert.Empty(t, mail.sent)
}

// Тревога уходит только по высокой критичности: событие публикуется всегда,
// но обработчик пропускает Medium и Low.
func TestCreateReportMediumSeverityNoAlert(t *testing.T) {
	ctx := context.Background()

	userRepo := &fakeUserRepo{users: []entities.User{
		{ID: 1, Email: "admin@cmms.local", Role: constants.RoleAdmin, IsActive: true},
	}}
	mail := &fakeMailer{}
	bus := eventbus.New(zap.NewNop())
	notifications := NewNotificationService(userRepo, &fakeFailureRepo{}, &fakeMaintenanceRepo{}, mail, zap.NewNop())
	notifications.SubscribeToEvents(bus)

	eq := testEquipment()
	eq.Status = constants.EquipmentStatusActive
	equipmentRepo := &fakeEquipmentRepo{byID: map[uint64]entities.Equipment{1: eq}}
	txManager := &fakeTxManager{}

	svc := NewFailureService(&fakeFailureRepo{}, equipmentRepo, NewRuleEngineService(zap.NewNop()), txManager, bus, zap.NewNop())

	created, err := svc.CreateReport(ctx, 1, dto.CreateFailureReportDTO{
		EquipmentID: 1,
		Description: "Подтекает масло",
		Severity:    constants.SeverityMedium,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// Статус не менялся, письма не было.
	assert.Empty(t, equipmentRepo.statusUpdates)
	assert.Empty(t, mail.sent)
	assert.Equal(t, 1, txManager.commits)
}

func TestCreateReportBadDateFormat(t *testing.T) {
	txManager := &fakeTxManager{}
	svc := NewFailureService(&fakeFailureRepo{}, &fakeEquipmentRepo{}, NewRuleEngineService(zap.NewNop()), txManager, eventbus.New(zap.NewNop()), zap.NewNop())

	_, err := svc.CreateReport(context.Background(), 1, dto.CreateFailureReportDTO{
		EquipmentID: 1,
		Description: "Вибрация",
		Severity:    constants.SeverityLow,
		FailureDate: "10.03.2025",
	})
	require.Error(t, err)
	assert.Zero(t, txManager.commits)
}
