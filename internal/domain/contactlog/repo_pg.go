package contactlog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resqlink/resqlink/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const cols = `id, hospital_id, ambulance_id, type, status, response, created_at`

func scan(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.HospitalID, &e.AmbulanceID, &e.Type, &e.Status, &e.Response, &e.CreatedAt)
	return &e, err
}

func (r *repoPG) Append(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO contact_log (id, hospital_id, ambulance_id, type, status, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.HospitalID, e.AmbulanceID, e.Type, e.Status, e.Response, e.CreatedAt)
	return err
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]*Entry, int, error) {
	return r.list(ctx, `hospital_id`, hospitalID, limit, offset)
}

func (r *repoPG) ListByAmbulance(ctx context.Context, ambulanceID string, limit, offset int) ([]*Entry, int, error) {
	return r.list(ctx, `ambulance_id`, ambulanceID, limit, offset)
}

func (r *repoPG) list(ctx context.Context, col, value string, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM contact_log WHERE `+col+` = $1`, value).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM contact_log
		WHERE `+col+` = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, value, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
