package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"academy-platform/internal/domain"
	"academy-platform/internal/domain/model"
	"academy-platform/internal/domain/ports/repository"
	"academy-platform/internal/infra/security"
)

var _ repository.StudentRepository = (*studentRepo)(nil)

// studentRepo persists students. The document (CPF/CNPJ) column is encrypted
// at rest through the injected cipher.
type studentRepo struct {
	pool   *pgxpool.Pool
	cipher *security.Cipher
}

func NewStudentRepo(pool *pgxpool.Pool, cipher *security.Cipher) *studentRepo {
	return &studentRepo{pool: pool, cipher: cipher}
}

const studentColumns = `id, organization_id, first_name, last_name, email, document_enc, phone, belt_rank, points, active, gateway_customer_id, registered_at, updated_at`

func (r *studentRepo) Save(ctx context.Context, tx repository.Tx, s *model.Student) error {
	doc, err := r.cipher.Encrypt(s.Document)
	if err != nil {
		return domain.ErrOperationFailed
	}
	const q = `
INSERT INTO students (
  id, organization_id, first_name, last_name, email, document_enc, phone, belt_rank, points, active, gateway_customer_id, registered_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  first_name=$3, last_name=$4, email=$5, document_enc=$6, phone=$7, belt_rank=$8, points=$9, active=$10, gateway_customer_id=$11, updated_at=$13;`

	_, err = execSQL(ctx, r.pool, tx, q, s.ID, s.OrganizationID, s.FirstName, s.LastName, s.Email, doc, s.Phone, s.BeltRank, s.Points, s.Active, s.GatewayCustomerID, s.RegisteredAt, s.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *studentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return r.scanStudent(row)
}

func (r *studentRepo) FindByEmail(ctx context.Context, tx repository.Tx, orgID, email string) (*model.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE organization_id=$1 AND email=$2 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, orgID, email)
	if err != nil {
		return nil, err
	}
	return r.scanStudent(row)
}

func (r *studentRepo) List(ctx context.Context, tx repository.Tx, orgID string, offset, limit int) ([]*model.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE organization_id=$1 ORDER BY registered_at DESC OFFSET $2 LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, orgID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Student
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *studentRepo) SetGatewayCustomerID(ctx context.Context, tx repository.Tx, studentID, customerID string) error {
	const q = `UPDATE students SET gateway_customer_id=$2, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, studentID, customerID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *studentRepo) AddPoints(ctx context.Context, tx repository.Tx, studentID string, delta int) error {
	const q = `UPDATE students SET points=points+$2, updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, studentID, delta)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *studentRepo) CountActive(ctx context.Context, tx repository.Tx, orgID string) (int, error) {
	const q = `SELECT COUNT(*) FROM students WHERE organization_id=$1 AND active;`
	row, err := pickRow(ctx, r.pool, tx, q, orgID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *studentRepo) scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	var doc string
	err := row.Scan(&s.ID, &s.OrganizationID, &s.FirstName, &s.LastName, &s.Email, &doc, &s.Phone, &s.BeltRank, &s.Points, &s.Active, &s.GatewayCustomerID, &s.RegisteredAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if s.Document, err = r.cipher.Decrypt(doc); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}
