package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/justatarek/ergodnc/internal/dtos"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/repositories"
	"github.com/justatarek/ergodnc/internal/services"
	"github.com/justatarek/ergodnc/internal/utils"
)

type ReservationsController struct {
	reservationService *services.ReservationService
}

func NewReservationsController(rs *services.ReservationService) *ReservationsController {
	return &ReservationsController{reservationService: rs}
}

// ----------------------------------------------------------------
// GET /api/v1/reservations
// ----------------------------------------------------------------
func (c *ReservationsController) IndexHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	filter, err := reservationFilterFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil,
		)
		return
	}

	page := parsePage(r)
	reservations, err := c.reservationService.ListForVisitor(r.Context(), userID, filter, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reservationsResponse(reservations, page))
}

// ----------------------------------------------------------------
// GET /api/v1/reservations/host
// ----------------------------------------------------------------
func (c *ReservationsController) HostIndexHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	filter, err := reservationFilterFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil,
		)
		return
	}

	page := parsePage(r)
	reservations, err := c.reservationService.ListForHost(r.Context(), userID, filter, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reservationsResponse(reservations, page))
}

// ----------------------------------------------------------------
// POST /api/v1/reservations
// ----------------------------------------------------------------
func (c *ReservationsController) StoreHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req dtos.StoreReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnprocessableEntity, utils.ErrCodeValidation, err.Error(), nil,
		)
		return
	}

	// The uuid4 and datetime tags above already vetted the formats.
	officeID := uuid.MustParse(req.OfficeID)
	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	rsv, err := c.reservationService.Create(r.Context(), userID, officeID, startDate, endDate)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// The access token appears exactly once, in this response.
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewReservationDTO(rsv, true))
}

// ----------------------------------------------------------------
// DELETE /api/v1/reservations/{reservationID}
// ----------------------------------------------------------------
func (c *ReservationsController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	reservationID, err := uuid.Parse(mux.Vars(r)["reservationID"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid reservation id", nil,
		)
		return
	}

	rsv, err := c.reservationService.Cancel(r.Context(), reservationID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewReservationDTO(rsv, false))
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

func reservationFilterFromRequest(r *http.Request) (repositories.ReservationFilter, error) {
	q := r.URL.Query()
	var f repositories.ReservationFilter

	if v := q.Get("officeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, err
		}
		f.OfficeID = &id
	}
	if v := q.Get("status"); v != "" {
		status := models.ReservationStatus(v)
		if status != models.ReservationStatusActive && status != models.ReservationStatusCanceled {
			return f, utils.NewValidationError("status", "Invalid status")
		}
		f.Status = &status
	}
	if v := q.Get("fromDate"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if v := q.Get("toDate"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, err
		}
		f.To = &to
	}
	return f, nil
}

func reservationsResponse(reservations []*models.Reservation, page int) dtos.ListReservationsResponse {
	resp := dtos.ListReservationsResponse{
		Reservations: make([]dtos.ReservationDTO, 0, len(reservations)),
		Page:         page,
	}
	for _, rsv := range reservations {
		resp.Reservations = append(resp.Reservations, dtos.NewReservationDTO(rsv, false))
	}
	return resp
}
