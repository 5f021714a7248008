// File: internal/usecase/attendance_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
	"academy-platform/internal/infra/metrics"
)

// Compile-time check
var _ AttendanceUseCase = (*attendanceUC)(nil)

// CheckInEvidence is what the edge (QR scanner, front-desk UI, kiosk) captured.
type CheckInEvidence struct {
	Method           string
	PositionExecuted string
}

// CheckInWindow bounds when a check-in is accepted relative to the class
// schedule: from StartTime-Lead until EndTime+Grace.
type CheckInWindow struct {
	Lead  time.Duration
	Grace time.Duration
}

// DefaultCheckInWindow opens 30 minutes before class and closes 15 minutes
// after it ends.
var DefaultCheckInWindow = CheckInWindow{Lead: 30 * time.Minute, Grace: 15 * time.Minute}

// FrequencyStats summarizes a student's training rhythm.
type FrequencyStats struct {
	Total             int `json:"total"`
	Last30Days        int `json:"last_30_days"`
	CurrentStreakWeek int `json:"current_streak_weeks"`
}

type AttendanceUseCase interface {
	// Track records that a student attended a class occurrence. Repeated
	// check-ins for the same (occurrence, student) update the existing record
	// rather than duplicating it.
	Track(ctx context.Context, occurrenceID, studentID string, ev CheckInEvidence) (*model.AttendanceRecord, error)
	History(ctx context.Context, studentID string, from, to time.Time) ([]*model.AttendanceRecord, error)
	OccurrenceRoster(ctx context.Context, occurrenceID string) ([]*model.AttendanceRecord, error)
	Stats(ctx context.Context, studentID string) (*FrequencyStats, error)
}

type attendanceUC struct {
	attendance   repository.AttendanceRepository
	occurrences  repository.ClassOccurrenceRepository
	students     repository.StudentRepository
	gamification GamificationUseCase
	log          *zerolog.Logger

	window CheckInWindow
	now    func() time.Time
}

func NewAttendanceUseCase(
	attendance repository.AttendanceRepository,
	occurrences repository.ClassOccurrenceRepository,
	students repository.StudentRepository,
	gamification GamificationUseCase,
	window CheckInWindow,
	logger *zerolog.Logger,
	nowOpt ...func() time.Time,
) *attendanceUC {
	uc := &attendanceUC{
		attendance:   attendance,
		occurrences:  occurrences,
		students:     students,
		gamification: gamification,
		log:          logger,
		window:       window,
		now:          time.Now,
	}
	if uc.window.Lead <= 0 {
		uc.window.Lead = DefaultCheckInWindow.Lead
	}
	if uc.window.Grace <= 0 {
		uc.window.Grace = DefaultCheckInWindow.Grace
	}
	if len(nowOpt) > 0 && nowOpt[0] != nil {
		uc.now = nowOpt[0]
	}
	return uc
}

func (uc *attendanceUC) Track(ctx context.Context, occurrenceID, studentID string, ev CheckInEvidence) (*model.AttendanceRecord, error) {
	if occurrenceID == "" || studentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !model.ValidCheckInMethod(ev.Method) {
		return nil, fmt.Errorf("%w: unknown check-in method %q", domain.ErrInvalidArgument, ev.Method)
	}

	occ, err := uc.occurrences.FindByID(ctx, repository.NoTX, occurrenceID)
	if err != nil {
		return nil, err
	}

	student, err := uc.students.FindByID(ctx, repository.NoTX, studentID)
	if err != nil {
		return nil, err
	}
	if !student.Active {
		metrics.IncCheckInRejected("inactive_student")
		return nil, domain.ErrStudentInactive
	}

	// Private slots are booked; walk-ins only exist for collective classes.
	if occ.Type == model.ClassTypePrivate && !occ.IsEnrolled(studentID) {
		metrics.IncCheckInRejected("not_enrolled")
		return nil, domain.ErrNotEnrolled
	}

	now := uc.now()
	opens := occ.StartTime.Add(-uc.window.Lead)
	closes := occ.EndTime.Add(uc.window.Grace)
	if now.Before(opens) || now.After(closes) {
		metrics.IncCheckInRejected("window_closed")
		return nil, fmt.Errorf("%w: window %s..%s", domain.ErrCheckInClosed,
			opens.Format(time.RFC3339), closes.Format(time.RFC3339))
	}

	status := model.AttendanceStatusPresent
	if now.After(occ.StartTime) {
		status = model.AttendanceStatusLate
	}

	rec := &model.AttendanceRecord{
		ID:                ulid.Make().String(),
		OrganizationID:    occ.OrganizationID,
		ClassOccurrenceID: occ.ID,
		StudentID:         studentID,
		Status:            status,
		RecordedAt:        now,
		Method:            model.CheckInMethod(ev.Method),
		PositionExecuted:  ev.PositionExecuted,
		CreatedAt:         now,
	}

	created, err := uc.attendance.Upsert(ctx, repository.NoTX, rec)
	if err != nil {
		return nil, err
	}

	metrics.IncCheckIn(string(rec.Method), string(rec.Status))
	uc.log.Info().
		Str("occurrence_id", occ.ID).
		Str("student_id", studentID).
		Str("status", string(rec.Status)).
		Bool("created", created).
		Msg("check-in recorded")

	// Gamification is best-effort and only fires on the first check-in for the
	// occurrence; a repeated scan must not double-award points.
	if created && uc.gamification != nil {
		if err := uc.gamification.OnCheckIn(ctx, occ.OrganizationID, studentID); err != nil {
			uc.log.Error().Err(err).Str("student_id", studentID).Msg("gamification hook failed")
		}
	}
	return rec, nil
}

func (uc *attendanceUC) History(ctx context.Context, studentID string, from, to time.Time) ([]*model.AttendanceRecord, error) {
	if studentID == "" || to.Before(from) {
		return nil, domain.ErrInvalidArgument
	}
	recs, err := uc.attendance.ListByStudent(ctx, repository.NoTX, studentID, from, to)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.AttendanceRecord{}, nil
	}
	return recs, err
}

func (uc *attendanceUC) OccurrenceRoster(ctx context.Context, occurrenceID string) ([]*model.AttendanceRecord, error) {
	if occurrenceID == "" {
		return nil, domain.ErrInvalidArgument
	}
	recs, err := uc.attendance.ListByOccurrence(ctx, repository.NoTX, occurrenceID)
	if errors.Is(err, domain.ErrNotFound) {
		return []*model.AttendanceRecord{}, nil
	}
	return recs, err
}

// Stats derives frequency numbers from the last 12 weeks of records. The
// streak counts consecutive ISO weeks (ending now) with at least one check-in.
func (uc *attendanceUC) Stats(ctx context.Context, studentID string) (*FrequencyStats, error) {
	if studentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	total, err := uc.attendance.CountByStudent(ctx, repository.NoTX, studentID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	recs, err := uc.attendance.ListByStudent(ctx, repository.NoTX, studentID, now.AddDate(0, 0, -12*7), now)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	stats := &FrequencyStats{Total: total}
	weeks := make(map[string]bool)
	cutoff30 := now.AddDate(0, 0, -30)
	for _, r := range recs {
		if r.RecordedAt.After(cutoff30) {
			stats.Last30Days++
		}
		y, w := r.RecordedAt.ISOWeek()
		weeks[fmt.Sprintf("%d-%02d", y, w)] = true
	}
	for cursor := now; ; cursor = cursor.AddDate(0, 0, -7) {
		y, w := cursor.ISOWeek()
		if !weeks[fmt.Sprintf("%d-%02d", y, w)] {
			break
		}
		stats.CurrentStreakWeek++
	}
	return stats, nil
}
