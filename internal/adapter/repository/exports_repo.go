package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4/pgxpool"

	"clearvide/internal/domain"
)

// ExportsRepo stores export history in Postgres. With a nil pool every
// method is a no-op so the service runs without a database.
type ExportsRepo struct {
	pool *pgxpool.Pool
}

func NewExportsRepo(pool *pgxpool.Pool) *ExportsRepo {
	return &ExportsRepo{pool: pool}
}

func (r *ExportsRepo) Save(ctx context.Context, j *domain.ExportJob) error {
	if r.pool == nil {
		return nil
	}

	metaB, err := json.Marshal(j.Metadata)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO export_jobs (id, session_id, template, premium, status, file_name, file_size, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, file_name = EXCLUDED.file_name, file_size = EXCLUDED.file_size, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		j.ID, j.SessionID, j.Template, j.Premium, j.Status, j.FileName, j.FileSize, metaB, j.CreatedAt, j.UpdatedAt)
	return err
}

// ListBySession returns the newest exports first.
func (r *ExportsRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ExportJob, error) {
	if r.pool == nil {
		return []domain.ExportJob{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id, session_id, template, premium, status, file_name, file_size, metadata, created_at, updated_at
		FROM export_jobs WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ExportJob{}
	for rows.Next() {
		var j domain.ExportJob
		var metaB []byte
		if err := rows.Scan(&j.ID, &j.SessionID, &j.Template, &j.Premium, &j.Status, &j.FileName, &j.FileSize, &metaB, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		if len(metaB) > 0 {
			_ = json.Unmarshal(metaB, &j.Metadata)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
