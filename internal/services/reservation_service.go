package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/justatarek/ergodnc/internal/constants"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/repositories"
	"github.com/justatarek/ergodnc/internal/utils"
)

type ReservationService struct {
	officeRepo      repositories.OfficeRepository
	reservationRepo repositories.ReservationRepository
	userRepo        repositories.UserRepository
	locker          repositories.Locker
	notifier        Notifier
}

func NewReservationService(
	officeRepo repositories.OfficeRepository,
	reservationRepo repositories.ReservationRepository,
	userRepo repositories.UserRepository,
	locker repositories.Locker,
	notifier Notifier,
) *ReservationService {
	return &ReservationService{
		officeRepo:      officeRepo,
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		locker:          locker,
		notifier:        notifier,
	}
}

// ComputePrice prices an inclusive [start, end] stay. Whole days times the
// daily rate, with the monthly discount applied from 28 days up; all
// arithmetic is integral, truncating toward zero.
func ComputePrice(start, end time.Time, pricePerDay, monthlyDiscount int) int {
	days := int(models.Date(end).Sub(models.Date(start)).Hours()/24) + 1
	price := days * pricePerDay
	if days >= constants.MonthlyDiscountMinDays && monthlyDiscount > 0 {
		price -= price * monthlyDiscount / 100
	}
	return price
}

// Create books an office for [startDate, endDate]. The availability check
// and insert run under an exclusive per-office named lock so that two
// concurrent attempts on the same office serialize; attempts on different
// offices never contend. The request layer validates the inputs already,
// but everything is re-asserted here.
func (s *ReservationService) Create(
	ctx context.Context,
	visitorID uuid.UUID,
	officeID uuid.UUID,
	startDate, endDate time.Time,
) (*models.Reservation, error) {
	start := models.Date(startDate)
	end := models.Date(endDate)
	today := models.Date(time.Now())

	if !start.After(today) {
		return nil, utils.NewValidationError("start_date", "The start date must be a date after today")
	}
	if !end.After(start) {
		return nil, utils.NewValidationError("end_date", "The end date must be a date after the start date")
	}

	office, err := s.officeRepo.GetByID(ctx, officeID)
	if err != nil {
		return nil, err
	}
	if office == nil {
		return nil, utils.NewValidationError("office_id", "Invalid office_id")
	}
	if office.UserID == visitorID {
		return nil, utils.NewValidationError("office_id", "You cannot make a reservation on your own office")
	}
	if office.IsHidden || office.ApprovalStatus == models.OfficeStatusPending {
		return nil, utils.NewValidationError("office_id", "You cannot make a reservation on a hidden office")
	}

	rsv, err := s.bookUnderLock(ctx, visitorID, office, start, end)
	if err != nil {
		return nil, err
	}

	// Best-effort, after the lock is gone and the row is durable.
	visitor, vErr := s.userRepo.GetByID(ctx, visitorID)
	host, hErr := s.userRepo.GetByID(ctx, office.UserID)
	if vErr != nil || hErr != nil {
		utils.Logger.WithFields(map[string]interface{}{
			"visitor_err": vErr, "host_err": hErr,
		}).Warn("Skipping reservation notifications, recipient lookup failed")
	} else {
		s.notifier.ReservationCreated(visitor, host, rsv, office)
	}

	return rsv, nil
}

// bookUnderLock holds the named lock for the whole check-then-create
// sequence and releases it on every exit path.
func (s *ReservationService) bookUnderLock(
	ctx context.Context,
	visitorID uuid.UUID,
	office *models.Office,
	start, end time.Time,
) (*models.Reservation, error) {
	key := fmt.Sprintf(constants.BookingLockKeyText, office.ID)
	release, err := s.locker.Acquire(ctx, key, constants.BookingLockWait)
	if err != nil {
		// utils.ErrLockTimeout passes through unchanged: a transient
		// conflict, distinct from validation failures.
		return nil, err
	}
	defer release()

	taken, err := s.reservationRepo.ExistsActiveBetween(ctx, office.ID, start, end)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.NewValidationError("office_id", "You cannot make a reservation during this time")
	}

	rsv := &models.Reservation{
		ID:          uuid.New(),
		UserID:      visitorID,
		OfficeID:    office.ID,
		Status:      models.ReservationStatusActive,
		StartDate:   start,
		EndDate:     end,
		Price:       ComputePrice(start, end, office.PricePerDay, office.MonthlyDiscount),
		AccessToken: utils.RandomString(constants.AccessTokenLength),
	}
	if err := s.reservationRepo.Create(ctx, rsv); err != nil {
		return nil, err
	}
	return rsv, nil
}

// Cancel marks the visitor's own Active reservation as canceled, provided
// the start date is still in the future. Once today's date reaches the
// start date the reservation is no longer cancellable.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, visitorID uuid.UUID) (*models.Reservation, error) {
	rsv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rsv == nil {
		return nil, utils.ErrNotFound
	}
	if rsv.UserID != visitorID {
		return nil, utils.ErrForbidden
	}

	today := models.Date(time.Now())
	if rsv.Status == models.ReservationStatusCanceled || !today.Before(rsv.StartDate) {
		return nil, utils.NewValidationError("reservation", "You cannot cancel this reservation")
	}

	if err := s.reservationRepo.UpdateStatus(ctx, rsv.ID, models.ReservationStatusCanceled); err != nil {
		return nil, err
	}
	rsv.Status = models.ReservationStatusCanceled
	return rsv, nil
}

// ListForVisitor returns the visitor's own reservations, newest first.
func (s *ReservationService) ListForVisitor(
	ctx context.Context,
	visitorID uuid.UUID,
	f repositories.ReservationFilter,
	page int,
) ([]*models.Reservation, error) {
	f.VisitorID = &visitorID
	f.HostID = nil
	return s.reservationRepo.List(ctx, f, page)
}

// ListForHost returns reservations across all offices the host owns.
func (s *ReservationService) ListForHost(
	ctx context.Context,
	hostID uuid.UUID,
	f repositories.ReservationFilter,
	page int,
) ([]*models.Reservation, error) {
	f.HostID = &hostID
	return s.reservationRepo.List(ctx, f, page)
}
