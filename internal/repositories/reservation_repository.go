package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/justatarek/ergodnc/internal/constants"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

// ReservationFilter narrows reservation listings. Every field is
// optional; From/To must be set together.
type ReservationFilter struct {
	VisitorID *uuid.UUID
	HostID    *uuid.UUID
	OfficeID  *uuid.UUID
	Status    *models.ReservationStatus
	From      *time.Time
	To        *time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, rsv *models.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error

	// ExistsActiveBetween reports whether any Active reservation on the
	// office collides with the inclusive [from, to] date range.
	ExistsActiveBetween(ctx context.Context, officeID uuid.UUID, from, to time.Time) (bool, error)
	ExistsActive(ctx context.Context, officeID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, officeID uuid.UUID) (int, error)

	List(ctx context.Context, f ReservationFilter, page int) ([]*models.Reservation, error)
	ListActiveStartingOn(ctx context.Context, date time.Time) ([]*models.Reservation, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type reservationRepo struct {
	db  DB
	key []byte // AES key for access tokens at rest
}

func NewReservationRepository(db DB, encryptionKey []byte) ReservationRepository {
	return &reservationRepo{db: db, key: encryptionKey}
}

func baseSelectReservation() string {
	return `
        SELECT
            id, user_id, office_id, status,
            start_date, end_date, price, access_token,
            created_at, updated_at
        FROM reservations
    `
}

// overlapPredicate is the exact availability collision test. The two
// BETWEEN branches are boundary-inclusive while the containment branch is
// strict on both sides; keep the asymmetry as-is.
const overlapPredicate = `(
        start_date BETWEEN $2 AND $3
        OR end_date BETWEEN $2 AND $3
        OR (start_date < $2 AND end_date > $3)
    )`

func (r *reservationRepo) scan(row pgx.Row) (*models.Reservation, error) {
	var rsv models.Reservation
	var encToken string
	err := row.Scan(
		&rsv.ID,
		&rsv.UserID,
		&rsv.OfficeID,
		&rsv.Status,
		&rsv.StartDate,
		&rsv.EndDate,
		&rsv.Price,
		&encToken,
		&rsv.CreatedAt,
		&rsv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	token, err := utils.Decrypt(r.key, encToken)
	if err != nil {
		return nil, fmt.Errorf("decrypt access token for reservation %s: %w", rsv.ID, err)
	}
	rsv.AccessToken = token
	rsv.StartDate = models.Date(rsv.StartDate)
	rsv.EndDate = models.Date(rsv.EndDate)
	return &rsv, nil
}

func (r *reservationRepo) Create(ctx context.Context, rsv *models.Reservation) error {
	encToken, err := utils.Encrypt(r.key, rsv.AccessToken)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO reservations (
            id, user_id, office_id, status,
            start_date, end_date, price, access_token,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW())
    `,
		rsv.ID,
		rsv.UserID,
		rsv.OfficeID,
		rsv.Status,
		rsv.StartDate,
		rsv.EndDate,
		rsv.Price,
		encToken,
	)
	return err
}

func (r *reservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	row := r.db.QueryRow(ctx, baseSelectReservation()+" WHERE id=$1", id)
	rsv, err := r.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rsv, err
}

func (r *reservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reservations SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *reservationRepo) ExistsActiveBetween(ctx context.Context, officeID uuid.UUID, from, to time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM reservations
            WHERE office_id = $1
              AND status = '`+string(models.ReservationStatusActive)+`'
              AND `+overlapPredicate+`
        )
    `, officeID, models.Date(from), models.Date(to)).Scan(&exists)
	return exists, err
}

func (r *reservationRepo) ExistsActive(ctx context.Context, officeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM reservations WHERE office_id=$1 AND status=$2
        )
    `, officeID, models.ReservationStatusActive).Scan(&exists)
	return exists, err
}

func (r *reservationRepo) CountActive(ctx context.Context, officeID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reservations WHERE office_id=$1 AND status=$2`,
		officeID, models.ReservationStatusActive).Scan(&n)
	return n, err
}

func (r *reservationRepo) List(ctx context.Context, f ReservationFilter, page int) ([]*models.Reservation, error) {
	conds := []string{"TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.VisitorID != nil {
		conds = append(conds, "reservations.user_id = "+arg(*f.VisitorID))
	}
	if f.HostID != nil {
		conds = append(conds,
			"EXISTS (SELECT 1 FROM offices o WHERE o.id = reservations.office_id AND o.user_id = "+arg(*f.HostID)+")")
	}
	if f.OfficeID != nil {
		conds = append(conds, "reservations.office_id = "+arg(*f.OfficeID))
	}
	if f.Status != nil {
		conds = append(conds, "reservations.status = "+arg(*f.Status))
	}
	if f.From != nil && f.To != nil {
		from := arg(models.Date(*f.From))
		to := arg(models.Date(*f.To))
		conds = append(conds, fmt.Sprintf(`(
            start_date BETWEEN %[1]s AND %[2]s
            OR end_date BETWEEN %[1]s AND %[2]s
            OR (start_date < %[1]s AND end_date > %[2]s)
        )`, from, to))
	}

	if page < 1 {
		page = 1
	}
	sql := fmt.Sprintf("%s WHERE %s ORDER BY start_date DESC, id LIMIT %d OFFSET %d",
		baseSelectReservation(),
		strings.Join(conds, " AND "),
		constants.PageSize,
		(page-1)*constants.PageSize,
	)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Reservation
	for rows.Next() {
		rsv, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rsv)
	}
	return out, rows.Err()
}

func (r *reservationRepo) ListActiveStartingOn(ctx context.Context, date time.Time) ([]*models.Reservation, error) {
	rows, err := r.db.Query(ctx,
		baseSelectReservation()+" WHERE status=$1 AND start_date=$2 ORDER BY id",
		models.ReservationStatusActive, models.Date(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Reservation
	for rows.Next() {
		rsv, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rsv)
	}
	return out, rows.Err()
}
