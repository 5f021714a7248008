package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
)

var _ repository.AttendanceRepository = (*attendanceRepo)(nil)

type attendanceRepo struct{ pool *pgxpool.Pool }

func NewAttendanceRepo(pool *pgxpool.Pool) *attendanceRepo {
	return &attendanceRepo{pool: pool}
}

const attendanceColumns = `id, organization_id, class_occurrence_id, student_id, status, recorded_at, method, position_executed, created_at`

// Upsert is one atomic statement keyed by (class_occurrence_id, student_id):
// insert on first check-in, refresh on a repeated one. xmax = 0 distinguishes
// a fresh insert from a conflict-update, which is what drives gamification.
func (r *attendanceRepo) Upsert(ctx context.Context, tx repository.Tx, rec *model.AttendanceRecord) (bool, error) {
	const q = `
INSERT INTO attendance_records (
  id, organization_id, class_occurrence_id, student_id, status, recorded_at, method, position_executed, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
) ON CONFLICT (class_occurrence_id, student_id) DO UPDATE SET
  status=EXCLUDED.status,
  recorded_at=EXCLUDED.recorded_at,
  method=EXCLUDED.method,
  position_executed=COALESCE(NULLIF(EXCLUDED.position_executed, ''), attendance_records.position_executed)
RETURNING ` + attendanceColumns + `, (xmax = 0) AS inserted;`

	row, err := pickRow(ctx, r.pool, tx, q, rec.ID, rec.OrganizationID, rec.ClassOccurrenceID, rec.StudentID, rec.Status, rec.RecordedAt, rec.Method, rec.PositionExecuted, rec.CreatedAt)
	if err != nil {
		return false, err
	}

	var created bool
	got := &model.AttendanceRecord{}
	if err := row.Scan(&got.ID, &got.OrganizationID, &got.ClassOccurrenceID, &got.StudentID, &got.Status, &got.RecordedAt, &got.Method, &got.PositionExecuted, &got.CreatedAt, &created); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	*rec = *got
	return created, nil
}

func (r *attendanceRepo) Find(ctx context.Context, tx repository.Tx, occurrenceID, studentID string) (*model.AttendanceRecord, error) {
	const q = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE class_occurrence_id=$1 AND student_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, occurrenceID, studentID)
	if err != nil {
		return nil, err
	}
	return scanAttendance(row)
}

func (r *attendanceRepo) ListByOccurrence(ctx context.Context, tx repository.Tx, occurrenceID string) ([]*model.AttendanceRecord, error) {
	const q = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE class_occurrence_id=$1 ORDER BY recorded_at;`
	return r.queryRecords(ctx, tx, q, occurrenceID)
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string, from, to time.Time) ([]*model.AttendanceRecord, error) {
	const q = `SELECT ` + attendanceColumns + ` FROM attendance_records
WHERE student_id=$1 AND recorded_at >= $2 AND recorded_at <= $3
ORDER BY recorded_at DESC;`
	return r.queryRecords(ctx, tx, q, studentID, from, to)
}

func (r *attendanceRepo) CountByStudent(ctx context.Context, tx repository.Tx, studentID string) (int, error) {
	const q = `SELECT COUNT(*) FROM attendance_records WHERE student_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, studentID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *attendanceRepo) queryRecords(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.AttendanceRecord, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanAttendance(row pgx.Row) (*model.AttendanceRecord, error) {
	rec := &model.AttendanceRecord{}
	err := row.Scan(&rec.ID, &rec.OrganizationID, &rec.ClassOccurrenceID, &rec.StudentID, &rec.Status, &rec.RecordedAt, &rec.Method, &rec.PositionExecuted, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return rec, nil
}
