package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/justatarek/ergodnc/internal/middleware"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/services"
	"github.com/justatarek/ergodnc/internal/utils"
)

// userIDFromRequest pulls the authenticated user id set by the auth
// middleware. Returns false with a response already written when missing
// or malformed.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	v := r.Context().Value(middleware.ContextKeyUserID)
	if v == nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(v.(string))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid userID in context", nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUserID is the anonymous-tolerant variant used by public
// listings.
func optionalUserID(r *http.Request) *uuid.UUID {
	v := r.Context().Value(middleware.ContextKeyUserID)
	if v == nil {
		return nil
	}
	id, err := uuid.Parse(v.(string))
	if err != nil {
		return nil
	}
	return &id
}

// handleServiceError translates the service-layer error taxonomy into
// HTTP. Validation failures keep their field key; lock timeouts come back
// as a retryable conflict; everything unexpected is opaque.
func handleServiceError(w http.ResponseWriter, err error) {
	var vErr *utils.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.RespondErrorWithCode(
			w, http.StatusUnprocessableEntity, utils.ErrCodeValidation,
			"The given data was invalid",
			map[string]string{vErr.Field: vErr.Message},
		)
	case errors.Is(err, utils.ErrLockTimeout):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeConflict,
			"The office is being booked by someone else, please retry", nil, err,
		)
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound, "Not found", nil,
		)
	case errors.Is(err, utils.ErrForbidden):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, "Forbidden", nil,
		)
	default:
		utils.Logger.WithError(err).Error("Unhandled service error")
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Something went wrong", nil, err,
		)
	}
}

// ownedOffice resolves the {officeID} path office and enforces that the
// caller owns it. Returns false with a response already written otherwise.
func ownedOffice(w http.ResponseWriter, r *http.Request, svc *services.OfficeService, userID uuid.UUID) (*models.Office, bool) {
	officeID, err := uuid.Parse(mux.Vars(r)["officeID"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid office id", nil,
		)
		return nil, false
	}
	office, err := svc.GetByID(r.Context(), officeID)
	if err != nil {
		handleServiceError(w, err)
		return nil, false
	}
	if office == nil {
		handleServiceError(w, utils.ErrNotFound)
		return nil, false
	}
	if office.UserID != userID {
		handleServiceError(w, utils.ErrForbidden)
		return nil, false
	}
	return office, true
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
