package services

import (
	"context"
	"time"

	"github.com/justatarek/ergodnc/internal/repositories"
	"github.com/justatarek/ergodnc/internal/utils"
)

// ReservationReminderService sends the "reservation starts today" notices.
// It runs from the daily scheduler in cmd/main.go.
type ReservationReminderService struct {
	reservationRepo repositories.ReservationRepository
	officeRepo      repositories.OfficeRepository
	userRepo        repositories.UserRepository
	notifier        Notifier
}

func NewReservationReminderService(
	reservationRepo repositories.ReservationRepository,
	officeRepo repositories.OfficeRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
) *ReservationReminderService {
	return &ReservationReminderService{
		reservationRepo: reservationRepo,
		officeRepo:      officeRepo,
		userRepo:        userRepo,
		notifier:        notifier,
	}
}

// SendDueReservationNotifications notifies the visitor and the host of
// every Active reservation starting today. A failure on one reservation
// does not stop the rest.
func (s *ReservationReminderService) SendDueReservationNotifications(ctx context.Context) error {
	due, err := s.reservationRepo.ListActiveStartingOn(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, rsv := range due {
		office, err := s.officeRepo.GetByID(ctx, rsv.OfficeID)
		if err != nil || office == nil {
			utils.Logger.WithError(err).Warnf("Skipping reminder for reservation %s, office unavailable", rsv.ID)
			continue
		}
		visitor, vErr := s.userRepo.GetByID(ctx, rsv.UserID)
		host, hErr := s.userRepo.GetByID(ctx, office.UserID)
		if vErr != nil || hErr != nil {
			utils.Logger.Warnf("Skipping reminder for reservation %s, recipient lookup failed", rsv.ID)
			continue
		}
		s.notifier.ReservationStarting(visitor, host, rsv, office)
	}
	return nil
}
