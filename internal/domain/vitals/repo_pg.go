package vitals

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

const cols = `id, patient_id, hr, spo2, sbp, dbp, temp, glucose, gcs, taken_at`

func scan(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.HR, &rec.SpO2, &rec.SBP, &rec.DBP,
		&rec.Temp, &rec.Glucose, &rec.GCS, &rec.TakenAt)
	return &rec, err
}

func (r *repoPG) Append(ctx context.Context, rec *Record) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO vitals_record (id, patient_id, hr, spo2, sbp, dbp, temp, glucose, gcs, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.PatientID, rec.HR, rec.SpO2, rec.SBP, rec.DBP,
		rec.Temp, rec.Glucose, rec.GCS, rec.TakenAt)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM vitals_record WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM vitals_record
		WHERE patient_id = $1 ORDER BY taken_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Record
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

func (r *repoPG) LatestByPatient(ctx context.Context, patientID string) (*Record, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM vitals_record
		WHERE patient_id = $1 ORDER BY taken_at DESC LIMIT 1`, patientID))
}
