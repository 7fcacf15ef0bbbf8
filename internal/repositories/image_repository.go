package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/utils"
)

type ImageRepository interface {
	Create(ctx context.Context, img *models.Image) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	ListByOwner(ctx context.Context, kind models.ImageOwnerKind, ownerID uuid.UUID) ([]*models.Image, error)
	CountByOwner(ctx context.Context, kind models.ImageOwnerKind, ownerID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type imageRepo struct {
	db DB
}

func NewImageRepository(db DB) ImageRepository {
	return &imageRepo{db: db}
}

func scanImage(row pgx.Row) (*models.Image, error) {
	var img models.Image
	err := row.Scan(&img.ID, &img.Path, &img.OwnerKind, &img.OwnerID, &img.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

const baseSelectImage = `SELECT id, path, owner_kind, owner_id, created_at FROM images`

func (r *imageRepo) Create(ctx context.Context, img *models.Image) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO images (id, path, owner_kind, owner_id, created_at)
        VALUES ($1,$2,$3,$4, NOW())
    `, img.ID, img.Path, img.OwnerKind, img.OwnerID)
	return err
}

func (r *imageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	img, err := scanImage(r.db.QueryRow(ctx, baseSelectImage+" WHERE id=$1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return img, err
}

func (r *imageRepo) ListByOwner(ctx context.Context, kind models.ImageOwnerKind, ownerID uuid.UUID) ([]*models.Image, error) {
	rows, err := r.db.Query(ctx,
		baseSelectImage+" WHERE owner_kind=$1 AND owner_id=$2 ORDER BY created_at", kind, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *imageRepo) CountByOwner(ctx context.Context, kind models.ImageOwnerKind, ownerID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM images WHERE owner_kind=$1 AND owner_id=$2`, kind, ownerID).Scan(&n)
	return n, err
}

func (r *imageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM images WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}
