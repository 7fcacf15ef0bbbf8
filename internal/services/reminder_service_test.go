package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/justatarek/ergodnc/internal/models"
)

func TestSendDueReservationNotifications(t *testing.T) {
	host := &models.User{ID: uuid.New()}
	visitor := &models.User{ID: uuid.New()}
	office := testOffice(host.ID)

	startsToday := &models.Reservation{
		ID: uuid.New(), UserID: visitor.ID, OfficeID: office.ID,
		Status: models.ReservationStatusActive, StartDate: day(0), EndDate: day(4),
	}
	startsTomorrow := &models.Reservation{
		ID: uuid.New(), UserID: visitor.ID, OfficeID: office.ID,
		Status: models.ReservationStatusActive, StartDate: day(1), EndDate: day(4),
	}
	canceledToday := &models.Reservation{
		ID: uuid.New(), UserID: visitor.ID, OfficeID: office.ID,
		Status: models.ReservationStatusCanceled, StartDate: day(0), EndDate: day(4),
	}
	// its office is gone; must be skipped without failing the run
	orphanToday := &models.Reservation{
		ID: uuid.New(), UserID: visitor.ID, OfficeID: uuid.New(),
		Status: models.ReservationStatusActive, StartDate: day(0), EndDate: day(4),
	}

	notifier := &fakeNotifier{}
	svc := NewReservationReminderService(
		newFakeReservationRepo(startsToday, startsTomorrow, canceledToday, orphanToday),
		newFakeOfficeRepo(office),
		newFakeUserRepo(host, visitor),
		notifier,
	)

	require.NoError(t, svc.SendDueReservationNotifications(context.Background()))

	_, starting, _ := notifier.counts()
	require.Equal(t, 1, starting)
}
