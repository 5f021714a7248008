package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
)

var _ repository.BadgeRepository = (*badgeRepo)(nil)

type badgeRepo struct{ pool *pgxpool.Pool }

func NewBadgeRepo(pool *pgxpool.Pool) *badgeRepo {
	return &badgeRepo{pool: pool}
}

func (r *badgeRepo) Award(ctx context.Context, tx repository.Tx, b *model.Badge) error {
	// Unique index on (student_id, code): a badge is granted once.
	const q = `INSERT INTO badges (id, student_id, code, name, awarded_at) VALUES ($1,$2,$3,$4,$5);`
	_, err := execSQL(ctx, r.pool, tx, q, b.ID, b.StudentID, b.Code, b.Name, b.AwardedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *badgeRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Badge, error) {
	const q = `SELECT id, student_id, code, name, awarded_at FROM badges WHERE student_id=$1 ORDER BY awarded_at;`
	rows, err := queryRows(ctx, r.pool, tx, q, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Badge
	for rows.Next() {
		b := &model.Badge{}
		if err := rows.Scan(&b.ID, &b.StudentID, &b.Code, &b.Name, &b.AwardedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
