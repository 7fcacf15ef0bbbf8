package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/justatarek/ergodnc/internal/constants"
	"github.com/justatarek/ergodnc/internal/filters"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type OfficeRepository interface {
	// WithTx returns a copy bound to the given transaction.
	WithTx(tx pgx.Tx) OfficeRepository

	Create(ctx context.Context, o *models.Office) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Office, error)
	Update(ctx context.Context, o *models.Office) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List renders the filter-pipeline query and returns one page.
	List(ctx context.Context, q filters.OfficeQuery, page int) ([]*models.Office, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type officeRepo struct {
	db DB
}

func NewOfficeRepository(db DB) OfficeRepository {
	return &officeRepo{db: db}
}

func (r *officeRepo) WithTx(tx pgx.Tx) OfficeRepository {
	return &officeRepo{db: tx}
}

func baseSelectOffice() string {
	return `
        SELECT
            offices.id, offices.user_id, offices.featured_image_id,
            offices.title, offices.description,
            offices.lat, offices.lng,
            offices.address_line1, offices.address_line2,
            offices.approval_status, offices.is_hidden,
            offices.price_per_day, offices.monthly_discount,
            offices.created_at, offices.updated_at, offices.deleted_at
        FROM offices
    `
}

func scanOffice(row pgx.Row) (*models.Office, error) {
	var o models.Office
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.FeaturedImageID,
		&o.Title,
		&o.Description,
		&o.Lat,
		&o.Lng,
		&o.AddressLine1,
		&o.AddressLine2,
		&o.ApprovalStatus,
		&o.IsHidden,
		&o.PricePerDay,
		&o.MonthlyDiscount,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *officeRepo) Create(ctx context.Context, o *models.Office) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO offices (
            id, user_id, featured_image_id, title, description,
            lat, lng, address_line1, address_line2,
            approval_status, is_hidden, price_per_day, monthly_discount,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW())
    `,
		o.ID,
		o.UserID,
		o.FeaturedImageID,
		o.Title,
		o.Description,
		o.Lat,
		o.Lng,
		o.AddressLine1,
		o.AddressLine2,
		o.ApprovalStatus,
		o.IsHidden,
		o.PricePerDay,
		o.MonthlyDiscount,
	)
	return err
}

func (r *officeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Office, error) {
	row := r.db.QueryRow(ctx, baseSelectOffice()+" WHERE offices.id=$1 AND offices.deleted_at IS NULL", id)
	o, err := scanOffice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *officeRepo) Update(ctx context.Context, o *models.Office) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE offices SET
            featured_image_id=$1, title=$2, description=$3,
            lat=$4, lng=$5, address_line1=$6, address_line2=$7,
            approval_status=$8, is_hidden=$9,
            price_per_day=$10, monthly_discount=$11,
            updated_at=NOW()
        WHERE id=$12 AND deleted_at IS NULL
    `,
		o.FeaturedImageID,
		o.Title,
		o.Description,
		o.Lat,
		o.Lng,
		o.AddressLine1,
		o.AddressLine2,
		o.ApprovalStatus,
		o.IsHidden,
		o.PricePerDay,
		o.MonthlyDiscount,
		o.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *officeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE offices SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *officeRepo) List(ctx context.Context, q filters.OfficeQuery, page int) ([]*models.Office, error) {
	q = q.Where("offices.deleted_at IS NULL")
	whereSQL, orderSQL, args := q.Render()

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * constants.PageSize
	sql := fmt.Sprintf("%s %s %s LIMIT %d OFFSET %d",
		baseSelectOffice(), whereSQL, orderSQL, constants.PageSize, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Office
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
