package dtos

import (
	"github.com/google/uuid"

	"github.com/justatarek/ergodnc/internal/models"
)

/*
   StoreReservationRequest books an office. Dates are calendar days in
   Y-m-d form; the service re-asserts the ordering rules.
*/
type StoreReservationRequest struct {
	OfficeID  string `json:"office_id" validate:"required,uuid4"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type ReservationDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	OfficeID  uuid.UUID `json:"office_id"`
	Status    string    `json:"status"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Price     int       `json:"price"`

	// Only present on the freshly created reservation returned to its
	// own visitor.
	AccessToken string `json:"access_token,omitempty"`

	Office *OfficeDTO `json:"office,omitempty"`
}

type ListReservationsResponse struct {
	Reservations []ReservationDTO `json:"reservations"`
	Page         int              `json:"page"`
}

func NewReservationDTO(rsv *models.Reservation, withToken bool) ReservationDTO {
	dto := ReservationDTO{
		ID:        rsv.ID,
		UserID:    rsv.UserID,
		OfficeID:  rsv.OfficeID,
		Status:    string(rsv.Status),
		StartDate: rsv.StartDate.Format("2006-01-02"),
		EndDate:   rsv.EndDate.Format("2006-01-02"),
		Price:     rsv.Price,
	}
	if withToken {
		dto.AccessToken = rsv.AccessToken
	}
	return dto
}
