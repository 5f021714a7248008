//go:build !integration

// File: internal/infra/web/mock_test.go
package web_test

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// ---------------- use case mocks ----------------

type mockStudentUC struct {
	RegisterFunc   func(ctx context.Context, orgID string, in usecase.RegisterStudentInput) (*model.Student, error)
	GetFunc        func(ctx context.Context, id string) (*model.Student, error)
	ListFunc       func(ctx context.Context, orgID string, offset, limit int) ([]*model.Student, error)
	DeactivateFunc func(ctx context.Context, id string) error
	PromoteFunc    func(ctx context.Context, id, beltRank string) error
}

func (m *mockStudentUC) Register(ctx context.Context, orgID string, in usecase.RegisterStudentInput) (*model.Student, error) {
	return m.RegisterFunc(ctx, orgID, in)
}
func (m *mockStudentUC) Get(ctx context.Context, id string) (*model.Student, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockStudentUC) List(ctx context.Context, orgID string, offset, limit int) ([]*model.Student, error) {
	return m.ListFunc(ctx, orgID, offset, limit)
}
func (m *mockStudentUC) Deactivate(ctx context.Context, id string) error {
	return m.DeactivateFunc(ctx, id)
}
func (m *mockStudentUC) Promote(ctx context.Context, id, beltRank string) error {
	return m.PromoteFunc(ctx, id, beltRank)
}

type mockPlanUC struct {
	CreateFunc     func(ctx context.Context, orgID, name, description string, price int64, billingType string) (*model.Plan, error)
	GetFunc        func(ctx context.Context, id string) (*model.Plan, error)
	ListActiveFunc func(ctx context.Context, orgID string) ([]*model.Plan, error)
	DeactivateFunc func(ctx context.Context, id string) error
}

func (m *mockPlanUC) Create(ctx context.Context, orgID, name, description string, price int64, billingType string) (*model.Plan, error) {
	return m.CreateFunc(ctx, orgID, name, description, price, billingType)
}
func (m *mockPlanUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockPlanUC) ListActive(ctx context.Context, orgID string) ([]*model.Plan, error) {
	return m.ListActiveFunc(ctx, orgID)
}
func (m *mockPlanUC) Deactivate(ctx context.Context, id string) error {
	return m.DeactivateFunc(ctx, id)
}

type mockSubscriptionUC struct {
	EnrollFunc        func(ctx context.Context, orgID, studentID, planID string, firstBillingDate time.Time) (*model.Subscription, error)
	GetFunc           func(ctx context.Context, id string) (*model.Subscription, error)
	ListByStudentFunc func(ctx context.Context, studentID string) ([]*model.Subscription, error)
	CancelFunc        func(ctx context.Context, id string) error
	ScheduleEndFunc   func(ctx context.Context, id string, at time.Time) error
	FinishExpiredFunc func(ctx context.Context) (int, error)
}

func (m *mockSubscriptionUC) Enroll(ctx context.Context, orgID, studentID, planID string, firstBillingDate time.Time) (*model.Subscription, error) {
	return m.EnrollFunc(ctx, orgID, studentID, planID, firstBillingDate)
}
func (m *mockSubscriptionUC) Get(ctx context.Context, id string) (*model.Subscription, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockSubscriptionUC) ListByStudent(ctx context.Context, studentID string) ([]*model.Subscription, error) {
	return m.ListByStudentFunc(ctx, studentID)
}
func (m *mockSubscriptionUC) Cancel(ctx context.Context, id string) error {
	return m.CancelFunc(ctx, id)
}
func (m *mockSubscriptionUC) ScheduleEnd(ctx context.Context, id string, at time.Time) error {
	return m.ScheduleEndFunc(ctx, id, at)
}
func (m *mockSubscriptionUC) FinishExpired(ctx context.Context) (int, error) {
	return m.FinishExpiredFunc(ctx)
}

type mockScheduleUC struct {
	ScheduleOccurrenceFunc func(ctx context.Context, orgID string, in usecase.ScheduleOccurrenceInput) (*model.ClassOccurrence, error)
	GetFunc                func(ctx context.Context, id string) (*model.ClassOccurrence, error)
	ListBetweenFunc        func(ctx context.Context, orgID string, from, to time.Time) ([]*model.ClassOccurrence, error)
	EnrollFunc             func(ctx context.Context, occurrenceID, studentID string) error
	UnenrollFunc           func(ctx context.Context, occurrenceID, studentID string) error
}

func (m *mockScheduleUC) ScheduleOccurrence(ctx context.Context, orgID string, in usecase.ScheduleOccurrenceInput) (*model.ClassOccurrence, error) {
	return m.ScheduleOccurrenceFunc(ctx, orgID, in)
}
func (m *mockScheduleUC) Get(ctx context.Context, id string) (*model.ClassOccurrence, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockScheduleUC) ListBetween(ctx context.Context, orgID string, from, to time.Time) ([]*model.ClassOccurrence, error) {
	return m.ListBetweenFunc(ctx, orgID, from, to)
}
func (m *mockScheduleUC) Enroll(ctx context.Context, occurrenceID, studentID string) error {
	return m.EnrollFunc(ctx, occurrenceID, studentID)
}
func (m *mockScheduleUC) Unenroll(ctx context.Context, occurrenceID, studentID string) error {
	return m.UnenrollFunc(ctx, occurrenceID, studentID)
}

type mockAttendanceUC struct {
	TrackFunc            func(ctx context.Context, occurrenceID, studentID string, ev usecase.CheckInEvidence) (*model.AttendanceRecord, error)
	HistoryFunc          func(ctx context.Context, studentID string, from, to time.Time) ([]*model.AttendanceRecord, error)
	OccurrenceRosterFunc func(ctx context.Context, occurrenceID string) ([]*model.AttendanceRecord, error)
	StatsFunc            func(ctx context.Context, studentID string) (*usecase.FrequencyStats, error)
}

func (m *mockAttendanceUC) Track(ctx context.Context, occurrenceID, studentID string, ev usecase.CheckInEvidence) (*model.AttendanceRecord, error) {
	return m.TrackFunc(ctx, occurrenceID, studentID, ev)
}
func (m *mockAttendanceUC) History(ctx context.Context, studentID string, from, to time.Time) ([]*model.AttendanceRecord, error) {
	return m.HistoryFunc(ctx, studentID, from, to)
}
func (m *mockAttendanceUC) OccurrenceRoster(ctx context.Context, occurrenceID string) ([]*model.AttendanceRecord, error) {
	return m.OccurrenceRosterFunc(ctx, occurrenceID)
}
func (m *mockAttendanceUC) Stats(ctx context.Context, studentID string) (*usecase.FrequencyStats, error) {
	return m.StatsFunc(ctx, studentID)
}

type mockBillingUC struct {
	GenerateChargesFunc func(ctx context.Context, orgID string, lookaheadDays int) (*usecase.BillingResult, error)
}

func (m *mockBillingUC) GenerateCharges(ctx context.Context, orgID string, lookaheadDays int) (*usecase.BillingResult, error) {
	return m.GenerateChargesFunc(ctx, orgID, lookaheadDays)
}

type mockPaymentUC struct {
	GetFunc                func(ctx context.Context, id string) (*model.Payment, error)
	ListByStudentFunc      func(ctx context.Context, studentID string, offset, limit int) ([]*model.Payment, error)
	HandleGatewayEventFunc func(ctx context.Context, charge adapter.Charge) error
	SyncStalePendingFunc   func(ctx context.Context, olderThan time.Duration, limit int) (int, error)
	BackfillPhantomsFunc   func(ctx context.Context, orgID string, lookaheadDays int) (int, error)
}

func (m *mockPaymentUC) Get(ctx context.Context, id string) (*model.Payment, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockPaymentUC) ListByStudent(ctx context.Context, studentID string, offset, limit int) ([]*model.Payment, error) {
	return m.ListByStudentFunc(ctx, studentID, offset, limit)
}
func (m *mockPaymentUC) HandleGatewayEvent(ctx context.Context, charge adapter.Charge) error {
	return m.HandleGatewayEventFunc(ctx, charge)
}
func (m *mockPaymentUC) SyncStalePending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	return m.SyncStalePendingFunc(ctx, olderThan, limit)
}
func (m *mockPaymentUC) BackfillPhantoms(ctx context.Context, orgID string, lookaheadDays int) (int, error) {
	return m.BackfillPhantomsFunc(ctx, orgID, lookaheadDays)
}

type mockStatsUC struct {
	DashboardFunc func(ctx context.Context, orgID string) (*usecase.Dashboard, error)
}

func (m *mockStatsUC) Dashboard(ctx context.Context, orgID string) (*usecase.Dashboard, error) {
	return m.DashboardFunc(ctx, orgID)
}

type mockInsightUC struct {
	StudentSummaryFunc func(ctx context.Context, studentID string) (string, error)
}

func (m *mockInsightUC) StudentSummary(ctx context.Context, studentID string) (string, error) {
	return m.StudentSummaryFunc(ctx, studentID)
}

// mockLimiter counts calls and answers with a fixed verdict.
type mockLimiter struct {
	allow bool
	err   error
	calls int
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.calls++
	return m.allow, m.err
}
