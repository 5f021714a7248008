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

var _ repository.ClassOccurrenceRepository = (*classOccurrenceRepo)(nil)

// classOccurrenceRepo stores scheduled classes. Enrollment is kept as a text[]
// column; rosters are small (a class rarely exceeds a few dozen students).
type classOccurrenceRepo struct{ pool *pgxpool.Pool }

func NewClassOccurrenceRepo(pool *pgxpool.Pool) *classOccurrenceRepo {
	return &classOccurrenceRepo{pool: pool}
}

const occurrenceColumns = `id, organization_id, course_id, instructor_id, type, start_time, end_time, max_students, enrolled_student_ids, created_at`

func (r *classOccurrenceRepo) Save(ctx context.Context, tx repository.Tx, c *model.ClassOccurrence) error {
	const q = `
INSERT INTO class_occurrences (
  id, organization_id, course_id, instructor_id, type, start_time, end_time, max_students, enrolled_student_ids, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (id) DO UPDATE SET
  instructor_id=$4, type=$5, start_time=$6, end_time=$7, max_students=$8, enrolled_student_ids=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.OrganizationID, c.CourseID, c.InstructorID, c.Type, c.StartTime, c.EndTime, c.MaxStudents, c.EnrolledStudentIDs, c.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *classOccurrenceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ClassOccurrence, error) {
	const q = `SELECT ` + occurrenceColumns + ` FROM class_occurrences WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOccurrence(row)
}

func (r *classOccurrenceRepo) ListBetween(ctx context.Context, tx repository.Tx, orgID string, from, to time.Time) ([]*model.ClassOccurrence, error) {
	const q = `SELECT ` + occurrenceColumns + ` FROM class_occurrences
WHERE organization_id=$1 AND start_time >= $2 AND start_time <= $3
ORDER BY start_time;`
	rows, err := queryRows(ctx, r.pool, tx, q, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ClassOccurrence
	for rows.Next() {
		c, err := scanOccurrence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *classOccurrenceRepo) EnrollStudent(ctx context.Context, tx repository.Tx, occurrenceID, studentID string) error {
	// array_append only when absent keeps the operation idempotent.
	const q = `UPDATE class_occurrences
SET enrolled_student_ids = array_append(enrolled_student_ids, $2)
WHERE id=$1 AND NOT ($2 = ANY(enrolled_student_ids));`
	_, err := execSQL(ctx, r.pool, tx, q, occurrenceID, studentID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *classOccurrenceRepo) UnenrollStudent(ctx context.Context, tx repository.Tx, occurrenceID, studentID string) error {
	const q = `UPDATE class_occurrences
SET enrolled_student_ids = array_remove(enrolled_student_ids, $2)
WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, occurrenceID, studentID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanOccurrence(row pgx.Row) (*model.ClassOccurrence, error) {
	c := &model.ClassOccurrence{}
	err := row.Scan(&c.ID, &c.OrganizationID, &c.CourseID, &c.InstructorID, &c.Type, &c.StartTime, &c.EndTime, &c.MaxStudents, &c.EnrolledStudentIDs, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}
