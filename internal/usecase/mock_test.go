//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/adapter"
	"academy-platform/internal/domain/ports/repository"
)

// =============================
// Repositories
// =============================

// ---- Mock StudentRepository ----

type MockStudentRepo struct {
	mu   sync.Mutex
	data map[string]*model.Student

	FindByIDFunc             func(ctx context.Context, tx repository.Tx, id string) (*model.Student, error)
	SaveFunc                 func(ctx context.Context, tx repository.Tx, s *model.Student) error
	SetGatewayCustomerIDFunc func(ctx context.Context, tx repository.Tx, studentID, customerID string) error
	AddPointsFunc            func(ctx context.Context, tx repository.Tx, studentID string, delta int) error
}

var _ repository.StudentRepository = (*MockStudentRepo)(nil)

func NewMockStudentRepo() *MockStudentRepo {
	return &MockStudentRepo{data: map[string]*model.Student{}}
}

func (r *MockStudentRepo) Save(ctx context.Context, tx repository.Tx, s *model.Student) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.data[s.ID] = &cp
	return nil
}

func (r *MockStudentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Student, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MockStudentRepo) FindByEmail(ctx context.Context, tx repository.Tx, orgID, email string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.data {
		if s.OrganizationID == orgID && s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockStudentRepo) List(ctx context.Context, tx repository.Tx, orgID string, offset, limit int) ([]*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Student
	for _, s := range r.data {
		if s.OrganizationID == orgID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockStudentRepo) SetGatewayCustomerID(ctx context.Context, tx repository.Tx, studentID, customerID string) error {
	if r.SetGatewayCustomerIDFunc != nil {
		return r.SetGatewayCustomerIDFunc(ctx, tx, studentID, customerID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[studentID]
	if !ok {
		return domain.ErrNotFound
	}
	s.GatewayCustomerID = customerID
	return nil
}

func (r *MockStudentRepo) AddPoints(ctx context.Context, tx repository.Tx, studentID string, delta int) error {
	if r.AddPointsFunc != nil {
		return r.AddPointsFunc(ctx, tx, studentID, delta)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[studentID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Points += delta
	return nil
}

func (r *MockStudentRepo) CountActive(ctx context.Context, tx repository.Tx, orgID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cnt := 0
	for _, s := range r.data {
		if s.OrganizationID == orgID && s.Active {
			cnt++
		}
	}
	return cnt, nil
}

// ---- Mock PlanRepository ----

type MockPlanRepo struct {
	mu   sync.Mutex
	data map[string]*model.Plan
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{data: map[string]*model.Plan{}}
}

func (r *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.data[p.ID] = &cp
	return nil
}

func (r *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MockPlanRepo) ListActive(ctx context.Context, tx repository.Tx, orgID string) ([]*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Plan
	for _, p := range r.data {
		if p.OrganizationID == orgID && p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockPlanRepo) Deactivate(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = false
	return nil
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	data map[string]*model.Subscription

	SaveFunc    func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindDueFunc func(ctx context.Context, tx repository.Tx, orgID string, cutoff time.Time) ([]*model.Subscription, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{data: map[string]*model.Subscription{}}
}

func (r *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.data[s.ID] = &cp
	return nil
}

func (r *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MockSubscriptionRepo) FindActiveByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.data {
		if s.StudentID == studentID && s.Status == model.SubscriptionStatusActive {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.data {
		if s.StudentID == studentID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) FindDue(ctx context.Context, tx repository.Tx, orgID string, cutoff time.Time) ([]*model.Subscription, error) {
	if r.FindDueFunc != nil {
		return r.FindDueFunc(ctx, tx, orgID, cutoff)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.data {
		if s.OrganizationID == orgID && s.Status == model.SubscriptionStatusActive && !s.NextBillingDate.After(cutoff) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) FindExpiring(ctx context.Context, tx repository.Tx, at time.Time) ([]*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.data {
		if s.Status == model.SubscriptionStatusActive && s.EndDate != nil && s.EndDate.Before(at) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockSubscriptionRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx, orgID string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int{}
	for _, s := range r.data {
		if s.OrganizationID == orgID && s.Status == model.SubscriptionStatusActive {
			out[s.PlanID]++
		}
	}
	return out, nil
}

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu       sync.Mutex
	data     map[string]*model.Payment
	byPeriod map[string]string // subscriptionID+"/"+periodKey -> payment ID

	CreateIfAbsentFunc func(ctx context.Context, tx repository.Tx, p *model.Payment) error
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{data: map[string]*model.Payment{}, byPeriod: map[string]string{}}
}

func periodIdx(subscriptionID, periodKey string) string { return subscriptionID + "/" + periodKey }

func (r *MockPaymentRepo) CreateIfAbsent(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if r.CreateIfAbsentFunc != nil {
		return r.CreateIfAbsentFunc(ctx, tx, p)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := periodIdx(p.SubscriptionID, p.PeriodKey)
	if _, exists := r.byPeriod[key]; exists {
		return domain.ErrConflict
	}
	cp := *p
	r.data[p.ID] = &cp
	r.byPeriod[key] = p.ID
	return nil
}

func (r *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.data[p.ID] = &cp
	r.byPeriod[periodIdx(p.SubscriptionID, p.PeriodKey)] = p.ID
	return nil
}

func (r *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MockPaymentRepo) FindBySubscriptionAndPeriod(ctx context.Context, tx repository.Tx, subscriptionID, periodKey string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPeriod[periodIdx(subscriptionID, periodKey)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.data[id]
	return &cp, nil
}

func (r *MockPaymentRepo) FindByGatewayChargeID(ctx context.Context, tx repository.Tx, chargeID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.data {
		if p.GatewayChargeID == chargeID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockPaymentRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string, offset, limit int) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.data {
		if p.StudentID == studentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Payment
	for _, p := range r.data {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockPaymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, paidDate *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.data[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.PaidDate = paidDate
	return true, nil
}

func (r *MockPaymentRepo) SumPaidSince(ctx context.Context, tx repository.Tx, orgID string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, p := range r.data {
		if p.OrganizationID == orgID && p.Status == model.PaymentStatusPaid && p.PaidDate != nil && !p.PaidDate.Before(since) {
			sum += p.Amount
		}
	}
	return sum, nil
}

// Count returns how many payments the mock holds.
func (r *MockPaymentRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// ---- Mock ClassOccurrenceRepository ----

type MockOccurrenceRepo struct {
	mu   sync.Mutex
	data map[string]*model.ClassOccurrence
}

var _ repository.ClassOccurrenceRepository = (*MockOccurrenceRepo)(nil)

func NewMockOccurrenceRepo() *MockOccurrenceRepo {
	return &MockOccurrenceRepo{data: map[string]*model.ClassOccurrence{}}
}

func (r *MockOccurrenceRepo) Save(ctx context.Context, tx repository.Tx, c *model.ClassOccurrence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.EnrolledStudentIDs = append([]string(nil), c.EnrolledStudentIDs...)
	r.data[c.ID] = &cp
	return nil
}

func (r *MockOccurrenceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ClassOccurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	cp.EnrolledStudentIDs = append([]string(nil), c.EnrolledStudentIDs...)
	return &cp, nil
}

func (r *MockOccurrenceRepo) ListBetween(ctx context.Context, tx repository.Tx, orgID string, from, to time.Time) ([]*model.ClassOccurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ClassOccurrence
	for _, c := range r.data {
		if c.OrganizationID == orgID && !c.StartTime.Before(from) && !c.StartTime.After(to) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockOccurrenceRepo) EnrollStudent(ctx context.Context, tx repository.Tx, occurrenceID, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[occurrenceID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range c.EnrolledStudentIDs {
		if id == studentID {
			return nil
		}
	}
	c.EnrolledStudentIDs = append(c.EnrolledStudentIDs, studentID)
	return nil
}

func (r *MockOccurrenceRepo) UnenrollStudent(ctx context.Context, tx repository.Tx, occurrenceID, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[occurrenceID]
	if !ok {
		return domain.ErrNotFound
	}
	out := c.EnrolledStudentIDs[:0]
	for _, id := range c.EnrolledStudentIDs {
		if id != studentID {
			out = append(out, id)
		}
	}
	c.EnrolledStudentIDs = out
	return nil
}

// ---- Mock AttendanceRepository ----

type MockAttendanceRepo struct {
	mu   sync.Mutex
	data map[string]*model.AttendanceRecord // (occurrenceID/studentID) -> record

	UpsertFunc func(ctx context.Context, tx repository.Tx, rec *model.AttendanceRecord) (bool, error)
}

var _ repository.AttendanceRepository = (*MockAttendanceRepo)(nil)

func NewMockAttendanceRepo() *MockAttendanceRepo {
	return &MockAttendanceRepo{data: map[string]*model.AttendanceRecord{}}
}

func attIdx(occurrenceID, studentID string) string { return occurrenceID + "/" + studentID }

func (r *MockAttendanceRepo) Upsert(ctx context.Context, tx repository.Tx, rec *model.AttendanceRecord) (bool, error) {
	if r.UpsertFunc != nil {
		return r.UpsertFunc(ctx, tx, rec)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := attIdx(rec.ClassOccurrenceID, rec.StudentID)
	if prev, exists := r.data[key]; exists {
		prev.RecordedAt = rec.RecordedAt
		prev.Method = rec.Method
		prev.Status = rec.Status
		if rec.PositionExecuted != "" {
			prev.PositionExecuted = rec.PositionExecuted
		}
		*rec = *prev
		return false, nil
	}
	cp := *rec
	r.data[key] = &cp
	return true, nil
}

func (r *MockAttendanceRepo) Find(ctx context.Context, tx repository.Tx, occurrenceID, studentID string) (*model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[attIdx(occurrenceID, studentID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *MockAttendanceRepo) ListByOccurrence(ctx context.Context, tx repository.Tx, occurrenceID string) ([]*model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AttendanceRecord
	for _, rec := range r.data {
		if rec.ClassOccurrenceID == occurrenceID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockAttendanceRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string, from, to time.Time) ([]*model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AttendanceRecord
	for _, rec := range r.data {
		if rec.StudentID == studentID && !rec.RecordedAt.Before(from) && !rec.RecordedAt.After(to) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockAttendanceRepo) CountByStudent(ctx context.Context, tx repository.Tx, studentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cnt := 0
	for _, rec := range r.data {
		if rec.StudentID == studentID {
			cnt++
		}
	}
	return cnt, nil
}

// ---- Mock BadgeRepository ----

type MockBadgeRepo struct {
	mu   sync.Mutex
	data map[string]*model.Badge // (studentID/code) -> badge

	AwardFunc func(ctx context.Context, tx repository.Tx, b *model.Badge) error
}

var _ repository.BadgeRepository = (*MockBadgeRepo)(nil)

func NewMockBadgeRepo() *MockBadgeRepo {
	return &MockBadgeRepo{data: map[string]*model.Badge{}}
}

func (r *MockBadgeRepo) Award(ctx context.Context, tx repository.Tx, b *model.Badge) error {
	if r.AwardFunc != nil {
		return r.AwardFunc(ctx, tx, b)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := b.StudentID + "/" + b.Code
	if _, exists := r.data[key]; exists {
		return domain.ErrConflict
	}
	cp := *b
	r.data[key] = &cp
	return nil
}

func (r *MockBadgeRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Badge
	for _, b := range r.data {
		if b.StudentID == studentID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockGateway struct {
	mu       sync.Mutex
	nextID   int
	charges  map[string]adapter.Charge
	canceled []string

	CreateCustomerFunc         func(ctx context.Context, info adapter.CustomerInfo) (string, error)
	CreateChargeFunc           func(ctx context.Context, req adapter.ChargeRequest) (adapter.Charge, error)
	GetChargeFunc              func(ctx context.Context, chargeID string) (adapter.Charge, error)
	ListChargesByReferenceFunc func(ctx context.Context, externalReference string) ([]adapter.Charge, error)
}

var _ adapter.PaymentGateway = (*MockGateway)(nil)

func NewMockGateway() *MockGateway {
	return &MockGateway{charges: map[string]adapter.Charge{}}
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) CreateCustomer(ctx context.Context, info adapter.CustomerInfo) (string, error) {
	if g.CreateCustomerFunc != nil {
		return g.CreateCustomerFunc(ctx, info)
	}
	return "cus_mock_1", nil
}

func (g *MockGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (adapter.Charge, error) {
	if g.CreateChargeFunc != nil {
		return g.CreateChargeFunc(ctx, req)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	ch := adapter.Charge{
		ID:                fmt.Sprintf("pay_%03d", g.nextID),
		Status:            "PENDING",
		InvoiceURL:        "https://invoice.example/" + req.ExternalReference,
		ExternalReference: req.ExternalReference,
	}
	g.charges[ch.ID] = ch
	return ch, nil
}

func (g *MockGateway) GetCharge(ctx context.Context, chargeID string) (adapter.Charge, error) {
	if g.GetChargeFunc != nil {
		return g.GetChargeFunc(ctx, chargeID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.charges[chargeID]
	if !ok {
		return adapter.Charge{}, &adapter.GatewayError{StatusCode: 404, Message: "not found", Business: true}
	}
	return ch, nil
}

func (g *MockGateway) ListChargesByReference(ctx context.Context, externalReference string) ([]adapter.Charge, error) {
	if g.ListChargesByReferenceFunc != nil {
		return g.ListChargesByReferenceFunc(ctx, externalReference)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []adapter.Charge
	for _, ch := range g.charges {
		if ch.ExternalReference == externalReference {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (g *MockGateway) CancelCharge(ctx context.Context, chargeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.canceled = append(g.canceled, chargeID)
	delete(g.charges, chargeID)
	return nil
}

// Canceled returns the ids of charges voided via CancelCharge.
func (g *MockGateway) Canceled() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.canceled...)
}

// ---- Mock Notifier ----

type MockNotifier struct {
	mu   sync.Mutex
	Sent []adapter.Notification

	SendFunc func(ctx context.Context, n adapter.Notification) error
}

var _ adapter.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Send(ctx context.Context, n adapter.Notification) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, n)
	return nil
}

// ---- Mock InsightGenerator ----

type MockInsightGen struct {
	SummarizeFunc func(ctx context.Context, facts string) (string, error)
}

var _ adapter.InsightGenerator = (*MockInsightGen)(nil)

func (m *MockInsightGen) Summarize(ctx context.Context, facts string) (string, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, facts)
	}
	return "summary", nil
}

// =============================
// Infra primitives
// =============================

// ---- In-memory Locker ----

type MockLocker struct {
	mu   sync.Mutex
	held map[string]string

	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}}
}

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if l.TryLockFunc != nil {
		return l.TryLockFunc(ctx, key, ttl)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return "", domain.ErrLockNotAcquired
	}
	token := "tok-" + key
	l.held[key] = token
	return token, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return errors.New("unlock token mismatch")
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs fn immediately with NoTX unless a test overrides WithTxFunc.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Static translator ----

type staticTranslator struct{}

func (staticTranslator) T(key string, args ...any) string { return key }

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
