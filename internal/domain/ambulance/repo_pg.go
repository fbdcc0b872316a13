package ambulance

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

const cols = `id, callsign, current_lat, current_lng, address, status, updated_at`

func scan(row pgx.Row) (*Ambulance, error) {
	var a Ambulance
	err := row.Scan(&a.ID, &a.Callsign, &a.Lat, &a.Lng, &a.Address, &a.Status, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Ambulance) error {
	if a.Status == "" {
		a.Status = StatusInactive
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ambulance (id, callsign, current_lat, current_lng, status)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Callsign, a.Lat, a.Lng, a.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Ambulance, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM ambulance WHERE id = $1`, id))
}

func (r *repoPG) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ambulance WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) UpsertLocation(ctx context.Context, id string, lat, lng float64, address *string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE ambulance
		SET current_lat=$2, current_lng=$3,
		    address=COALESCE($4, address),
		    status='active', updated_at=NOW()
		WHERE id = $1`,
		id, lat, lng, address)
	return err
}

func (r *repoPG) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE ambulance SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}
