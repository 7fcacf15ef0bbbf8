package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/justatarek/ergodnc/internal/models"
)

type TagRepository interface {
	WithTx(tx pgx.Tx) TagRepository

	ListAll(ctx context.Context) ([]*models.Tag, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Tag, error)
	ListByOfficeID(ctx context.Context, officeID uuid.UUID) ([]*models.Tag, error)

	AttachToOffice(ctx context.Context, officeID uuid.UUID, tagIDs []uuid.UUID) error
	// ReplaceForOffice swaps the office's tag set wholesale (not merged).
	ReplaceForOffice(ctx context.Context, officeID uuid.UUID, tagIDs []uuid.UUID) error
}

type tagRepo struct {
	db DB
}

func NewTagRepository(db DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) WithTx(tx pgx.Tx) TagRepository {
	return &tagRepo{db: tx}
}

func (r *tagRepo) listWhere(ctx context.Context, where string, args ...any) ([]*models.Tag, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM tags "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *tagRepo) ListAll(ctx context.Context) ([]*models.Tag, error) {
	return r.listWhere(ctx, "ORDER BY name")
}

func (r *tagRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.listWhere(ctx, "WHERE id = ANY($1::uuid[]) ORDER BY name", uuidStrings(ids))
}

func (r *tagRepo) ListByOfficeID(ctx context.Context, officeID uuid.UUID) ([]*models.Tag, error) {
	return r.listWhere(ctx,
		"WHERE id IN (SELECT tag_id FROM office_tag WHERE office_id=$1) ORDER BY name", officeID)
}

func (r *tagRepo) AttachToOffice(ctx context.Context, officeID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO office_tag (office_id, tag_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			officeID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (r *tagRepo) ReplaceForOffice(ctx context.Context, officeID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM office_tag WHERE office_id=$1`, officeID); err != nil {
		return err
	}
	return r.AttachToOffice(ctx, officeID, tagIDs)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
