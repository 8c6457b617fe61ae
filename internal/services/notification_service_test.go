package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-system/internal/entities"
	"cmms-system/pkg/config"
	"cmms-system/pkg/constants"
	apperrors "cmms-system/pkg/errors"
	"cmms-system/pkg/mailer"
)

// --- Фейки для изоляции сервисов от БД, Redis и SMTP ---

type fakeMailer struct {
	sent    []mailer.Message
	failing bool

	// done сигналит о каждой попытке отправки, нужен тестам
	// с асинхронной доставкой через шину событий.
	done chan struct{}
}

func (m *fakeMailer) Send(msg mailer.Message) error {
	if m.done != nil {
		defer func() { m.done <- struct{}{} }()
	}
	if m.failing {
		return errors.New("smtp недоступен")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeUserRepo struct {
	users []entities.User
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _, _ uint64) ([]entities.User, uint64, error) {
	return r.users, uint64(len(r.users)), nil
}
func (r *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}
func (r *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}
func (r *fakeUserRepo) CreateUser(_ context.Context, user *entities.User) (*entities.User, error) {
	user.ID = uint64(len(r.users) + 1)
	r.users = append(r.users, *user)
	return user, nil
}
func (r *fakeUserRepo) UpdateUser(_ context.Context, _ *entities.User) error  { return nil }
func (r *fakeUserRepo) DeleteUser(_ context.Context, _ uint64) error          { return nil }
func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uint64, _ time.Time) error {
	return nil
}
func (r *fakeUserRepo) GetActiveUsersByRole(_ context.Context, role string) ([]entities.User, error) {
	result := make([]entities.User, 0)
	for _, u := range r.users {
		if u.Role == role && u.IsActive {
			result = append(result, u)
		}
	}
	return result, nil
}

type fakeMaintenanceRepo struct {
	upcoming []entities.MaintenanceLog
}

func (r *fakeMaintenanceRepo) GetLogs(_ context.Context, _, _, _ uint64) ([]entities.MaintenanceLog, uint64, error) {
	return nil, 0, nil
}
func (r *fakeMaintenanceRepo) FindLogByID(_ context.Context, _ uint64) (*entities.MaintenanceLog, error) {
	return nil, nil
}
func (r *fakeMaintenanceRepo) CreateLogInTx(_ context.Context, _ pgx.Tx, log *entities.MaintenanceLog) (*entities.MaintenanceLog, error) {
	return log, nil
}
func (r *fakeMaintenanceRepo) GetLogsByEquipment(_ context.Context, _ uint64) ([]entities.MaintenanceLog, error) {
	return nil, nil
}
func (r *fakeMaintenanceRepo) GetUpcoming(_ context.Context, _, _ time.Time) ([]entities.MaintenanceLog, error) {
	return r.upcoming, nil
}

type fakeEquipmentRepo struct {
	byID          map[uint64]entities.Equipment
	statusUpdates map[uint64]string
	due           []entities.Equipment
}

func (r *fakeEquipmentRepo) GetEquipment(_ context.Context, _, _ uint64, _, _ string) ([]entities.Equipment, uint64, error) {
	return nil, 0, nil
}
func (r *fakeEquipmentRepo) FindEquipmentByID(_ context.Context, id uint64) (*entities.Equipment, error) {
	eq, ok := r.byID[id]
	if !ok {
		return nil, errors.New("оборудование не найдено")
	}
	return &eq, nil
}
func (r *fakeEquipmentRepo) CreateEquipment(_ context.Context, eq *entities.Equipment) (*entities.Equipment, error) {
	return eq, nil
}
func (r *fakeEquipmentRepo) UpdateEquipment(_ context.Context, _ *entities.Equipment) error {
	return nil
}
func (r *fakeEquipmentRepo) DeleteEquipment(_ context.Context, _ uint64) error { return nil }
func (r *fakeEquipmentRepo) FindEquipmentByIDInTx(_ context.Context, _ pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.FindEquipmentByID(context.Background(), id)
}
func (r *fakeEquipmentRepo) UpdateStatusInTx(_ context.Context, _ pgx.Tx, id uint64, status string) error {
	if r.statusUpdates == nil {
		r.statusUpdates = make(map[uint64]string)
	}
	r.statusUpdates[id] = status
	if eq, ok := r.byID[id]; ok {
		eq.Status = status
		r.byID[id] = eq
	}
	return nil
}
func (r *fakeEquipmentRepo) UpdateNextMaintenanceDateInTx(_ context.Context, _ pgx.Tx, _ uint64, _ *time.Time) error {
	return nil
}
func (r *fakeEquipmentRepo) GetDueForMaintenance(_ context.Context, _ time.Time) ([]entities.Equipment, error) {
	return r.due, nil
}

type fakeFailureRepo struct {
	unresolved []entities.FailureReport
	created    []entities.FailureReport
}

func (r *fakeFailureRepo) GetReports(_ context.Context, _, _ uint64, onlyUnresolved bool, _ uint64) ([]entities.FailureReport, uint64, error) {
	if onlyUnresolved {
		return r.unresolved, uint64(len(r.unresolved)), nil
	}
	return nil, 0, nil
}
func (r *fakeFailureRepo) FindReportByID(_ context.Context, _ uint64) (*entities.FailureReport, error) {
	return nil, nil
}
func (r *fakeFailureRepo) CreateReportInTx(_ context.Context, _ pgx.Tx, report *entities.FailureReport) (*entities.FailureReport, error) {
	report.ID = uint64(len(r.created) + 1)
	r.created = append(r.created, *report)
	return report, nil
}
func (r *fakeFailureRepo) UpdateReport(_ context.Context, _ *entities.FailureReport) error {
	return nil
}
func (r *fakeFailureRepo) GetReportsByEquipment(_ context.Context, _ uint64) ([]entities.FailureReport, error) {
	return nil, nil
}

// fakeCacheRepo хранит ключи в памяти, TTL не учитывается.
type fakeCacheRepo struct {
	store    map[string]string
	counters map[string]int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[string]string), counters: make(map[string]int64)}
}

func (c *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.store[key] = toString(value)
	return nil
}
func (c *fakeCacheRepo) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	if _, ok := c.store[key]; ok {
		return false, nil
	}
	c.store[key] = toString(value)
	return true, nil
}
func (c *fakeCacheRepo) Get(_ context.Context, key string) (string, error) {
	return c.store[key], nil
}
func (c *fakeCacheRepo) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.store, k)
		delete(c.counters, k)
	}
	return nil
}
func (c *fakeCacheRepo) Incr(_ context.Context, key string) (int64, error) {
	c.counters[key]++
	c.store[key] = strconv.FormatInt(c.counters[key], 10)
	return c.counters[key], nil
}
func (c *fakeCacheRepo) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "1"
}

// --- Тесты рассылок ---

func testEquipment() entities.Equipment {
	return entities.Equipment{
		ID:           1,
		Name:         "Токарный станок ТВ-320",
		Category:     "Станки",
		SerialNumber: null.StringFrom("TV-320-001"),
		Location:     null.StringFrom("Цех №1"),
		Status:       constants.EquipmentStatusOutOfService,
	}
}

func TestSendCriticalFailureAlert(t *testing.T) {
	ctx := context.Background()
	userRepo := &fakeUserRepo{users: []entities.User{
		{ID: 1, Username: "admin", Email: "admin@cmms.local", Role: constants.RoleAdmin, IsActive: true},
		{ID: 2, Username: "tech", Email: "tech@cmms.local", Role: constants.RoleTechnician, IsActive: true},
		{ID: 3, Username: "old_admin", Email: "old@cmms.local", Role: constants.RoleAdmin, IsActive: false},
	}}
	mail := &fakeMailer{}
	svc := NewNotificationService(userRepo, &fakeFailureRepo{}, &fakeMaintenanceRepo{}, mail, zap.NewNop())

	report := entities.FailureReport{
		ID:          7,
		EquipmentID: 1,
		Severity:    constants.SeverityHigh,
		Description: "Заклинило шпиндель",
		FailureDate: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
	}

	err := svc.SendCriticalFailureAlert(ctx, report, testEquipment())
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)

	msg := mail.sent[0]
	// Тревога уходит только активным администраторам.
	assert.Equal(t, []string{"admin@cmms.local"}, msg.To)
	assert.Contains(t, msg.Subject, "КРИТИЧЕСКИЙ ОТКАЗ")
	assert.Contains(t, msg.Subject, "Токарный станок ТВ-320")
	assert.Contains(t, msg.Body, "Заклинило шпиндель")
	assert.Contains(t, msg.Body, constants.SeverityHigh)
	assert.Contains(t, msg.Body, "Цех №1")
}

func TestSendCriticalFailureAlertNoAdmins(t *testing.T) {
	mail := &fakeMailer{}
	svc := NewNotificationService(&fakeUserRepo{}, &fakeFailureRepo{}, &fakeMaintenanceRepo{}, mail, zap.NewNop())

	err := svc.SendCriticalFailureAlert(context.Background(), entities.FailureReport{ID: 1}, testEquipment())
	require.NoError(t, err)
	assert.Empty(t, mail.sent)
}

func TestSendMaintenanceReminderRecipients(t *testing.T) {
	userRepo := &fakeUserRepo{users: []entities.User{
		{ID: 1, Email: "admin@cmms.local", Role: constants.RoleAdmin, IsActive: true},
		{ID: 2, Email: "tech@cmms.local", Role: constants.RoleTechnician, IsActive: true},
		{ID: 3, Email: "fired@cmms.local", Role: constants.RoleTechnician, IsActive: false},
	}}
	mail := &fakeMailer{}
	svc := NewNotificationService(userRepo, &fakeFailureRepo{}, &fakeMaintenanceRepo{}, mail, zap.NewNop())

	log := entities.MaintenanceLog{
		ID:                  3,
		EquipmentID:         1,
		MaintenanceType:     constants.MaintenancePreventive,
		Description:         "Замена масла",
		MaintenanceDate:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		NextMaintenanceDate: null.TimeFrom(time.Now().UTC().AddDate(0, 0, 3)),
	}

	err := svc.SendMaintenanceReminder(context.Background(), log, testEquipment())
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	// Напоминание получают активные техники, администраторы и деактивированные нет.
	assert.Equal(t, []string{"tech@cmms.local"}, mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Body, "Замена масла")
}

func TestSendDailySummary(t *testing.T) {
	userRepo := &fakeUserRepo{users: []entities.User{
		{ID: 1, Email: "admin@cmms.local", Role: constants.RoleAdmin, IsActive: true},
	}}
	failureRepo := &fakeFailureRepo{unresolved: []entities.FailureReport{
		{
			ID:            5,
			EquipmentName: "Компрессор К-100",
			Severity:      constants.SeverityMedium,
			Description:   "Падает давление",
			FailureDate:   time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC),
		},
	}}
	maintenanceRepo := &fakeMaintenanceRepo{upcoming: []entities.MaintenanceLog{
		{
			ID:                  6,
			EquipmentName:       "Токарный станок ТВ-320",
			MaintenanceType:     constants.MaintenancePreventive,
			NextMaintenanceDate: null.TimeFrom(time.Now().UTC().AddDate(0, 0, 2)),
		},
	}}
	mail := &fakeMailer{}
	svc := NewNotificationService(userRepo, failureRepo, maintenanceRepo, mail, zap.NewNop())

	err := svc.SendDailySummary(context.Background())
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)

	body := mail.sent[0].Body
	assert.Contains(t, body, "Компрессор К-100")
	assert.Contains(t, body, "Токарный станок ТВ-320")
	assert.Contains(t, body, "Нерешенных отказов: 1")
	assert.Contains(t, body, "Предстоящих работ: 1")
}

func TestBuildDailySummaryEmpty(t *testing.T) {
	msg := BuildDailySummary(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil, nil)
	assert.Contains(t, msg.Subject, "2025-03-10")
	assert.Contains(t, msg.Body, "Нерешенных отказов нет")
	assert.Contains(t, msg.Body, "Предстоящего обслуживания нет")
}

// --- Тесты обхода напоминаний ---

func reminderFixtures() (*fakeMaintenanceRepo, *fakeEquipmentRepo, *fakeUserRepo) {
	maintenanceRepo := &fakeMaintenanceRepo{upcoming: []entities.MaintenanceLog{
		{
			ID:                  10,
			EquipmentID:         1,
			MaintenanceType:     constants.MaintenancePreventive,
			Description:         "Плановый осмотр",
			MaintenanceDate:     time.Now().UTC().AddDate(0, -1, 0),
			NextMaintenanceDate: null.TimeFrom(time.Now().UTC().AddDate(0, 0, 2)),
		},
		{
			ID:                  11,
			EquipmentID:         1,
			MaintenanceType:     constants.MaintenanceCorrective,
			Description:         "Проверка после ремонта",
			MaintenanceDate:     time.Now().UTC().AddDate(0, 0, -10),
			NextMaintenanceDate: null.TimeFrom(time.Now().UTC().AddDate(0, 0, 5)),
		},
	}}
	equipmentRepo := &fakeEquipmentRepo{byID: map[uint64]entities.Equipment{1: testEquipment()}}
	userRepo := &fakeUserRepo{users: []entities.User{
		{ID: 1, Email: "tech@cmms.local", Role: constants.RoleTechnician, IsActive: true},
	}}
	return maintenanceRepo, equipmentRepo, userRepo
}

func TestRunReminderSweepIdempotent(t *testing.T) {
	ctx := context.Background()
	maintenanceRepo, equipmentRepo, userRepo := reminderFixtures()
	cache := newFakeCacheRepo()
	mail := &fakeMailer{}
	notifications := NewNotificationService(userRepo, &fakeFailureRepo{}, maintenanceRepo, mail, zap.NewNop())
	cfg := &config.ReminderConfig{LookAheadDays: 7, UpcomingWindowDays: 30}

	svc := NewReminderService(maintenanceRepo, equipmentRepo, cache, notifications, cfg, zap.NewNop())

	sent, err := svc.RunReminderSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, mail.sent, 2)

	// Повторный запуск в тот же день не дублирует письма.
	sent, err = svc.RunReminderSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, mail.sent, 2)
}

func TestRunReminderSweepRetriesAfterSendFailure(t *testing.T) {
	ctx := context.Background()
	maintenanceRepo, equipmentRepo, userRepo := reminderFixtures()
	maintenanceRepo.upcoming = maintenanceRepo.upcoming[:1]
	cache := newFakeCacheRepo()
	mail := &fakeMailer{failing: true}
	notifications := NewNotificationService(userRepo, &fakeFailureRepo{}, maintenanceRepo, mail, zap.NewNop())
	cfg := &config.ReminderConfig{LookAheadDays: 7, UpcomingWindowDays: 30}

	svc := NewReminderService(maintenanceRepo, equipmentRepo, cache, notifications, cfg, zap.NewNop())

	sent, err := svc.RunReminderSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	// Отметка снята, поэтому после восстановления почты письмо уйдет.
	assert.Empty(t, cache.store)

	mail.failing = false
	sent, err = svc.RunReminderSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, mail.sent, 1)
}
