package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resqlink/resqlink/internal/platform/db"
)

// pendingUniqueConstraint is the partial unique index enforcing at most one
// pending request per (patient, hospital); see migrations/001_core.sql.
const pendingUniqueConstraint = "dispatch_request_pending_uniq"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const cols = `id, ambulance_id, hospital_id, patient_id, prediction_id, status, idempotency_key, created_at, resolved_at`

func scan(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.AmbulanceID, &req.HospitalID, &req.PatientID,
		&req.PredictionID, &req.Status, &req.IdempotencyKey, &req.CreatedAt, &req.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repoPG) Insert(ctx context.Context, req *Request) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO dispatch_request
			(id, ambulance_id, hospital_id, patient_id, prediction_id, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (idempotency_key) DO NOTHING`,
		req.ID, req.AmbulanceID, req.HospitalID, req.PatientID,
		req.PredictionID, req.Status, req.IdempotencyKey, req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == pendingUniqueConstraint {
			return ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM dispatch_request WHERE id = $1`, id))
}

func (r *repoPG) GetByIdempotencyKey(ctx context.Context, key uuid.UUID) (*Request, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM dispatch_request WHERE idempotency_key = $1`, key))
}

func (r *repoPG) MarkResolved(ctx context.Context, id uuid.UUID, status string) (*Request, error) {
	req, err := scan(r.conn(ctx).QueryRow(ctx, `
		UPDATE dispatch_request
		SET status = $2, resolved_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+cols, id, status))
	if errors.Is(err, ErrNotFound) {
		// Either the id does not exist or a concurrent resolve won.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyResolved
	}
	return req, err
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID, status string, limit, offset int) ([]*Request, int, error) {
	where := `WHERE hospital_id = $1`
	args := []interface{}{hospitalID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}
	return r.list(ctx, where, args, limit, offset)
}

func (r *repoPG) ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Request, int, error) {
	return r.list(ctx, `WHERE ambulance_id = $1`, []interface{}{ambulanceID}, limit, offset)
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Request, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM dispatch_request `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT `+cols+` FROM dispatch_request %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, n+1, n+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Request
	for rows.Next() {
		req, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, req)
	}
	return items, total, rows.Err()
}
