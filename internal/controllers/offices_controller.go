package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/justatarek/ergodnc/internal/dtos"
	"github.com/justatarek/ergodnc/internal/filters"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/services"
	"github.com/justatarek/ergodnc/internal/utils"
)

type OfficesController struct {
	officeService *services.OfficeService
}

func NewOfficesController(os *services.OfficeService) *OfficesController {
	return &OfficesController{officeService: os}
}

// ----------------------------------------------------------------
// GET /api/v1/offices
// ----------------------------------------------------------------
func (c *OfficesController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	criteria, err := criteriaFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil,
		)
		return
	}

	page := parsePage(r)
	offices, err := c.officeService.List(ctx, criteria, page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := dtos.ListOfficesResponse{Offices: make([]dtos.OfficeDTO, 0, len(offices)), Page: page}
	for _, office := range offices {
		dto, err := c.officeService.BuildOfficeDTO(ctx, office)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		resp.Offices = append(resp.Offices, *dto)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/v1/offices/{officeID}
// ----------------------------------------------------------------
func (c *OfficesController) ShowHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	officeID, err := uuid.Parse(mux.Vars(r)["officeID"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid office id", nil,
		)
		return
	}

	office, err := c.officeService.GetByID(ctx, officeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if office == nil {
		handleServiceError(w, utils.ErrNotFound)
		return
	}

	dto, err := c.officeService.BuildOfficeDTO(ctx, office)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// POST /api/v1/offices
// ----------------------------------------------------------------
func (c *OfficesController) StoreHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req dtos.StoreOfficeRequest
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

	tagIDs, err := parseUUIDs(req.Tags)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnprocessableEntity, utils.ErrCodeValidation,
			"The given data was invalid", map[string]string{"tags": "Invalid tag"},
		)
		return
	}

	office, err := c.officeService.Create(ctx, userID, services.OfficeInput{
		Title:           req.Title,
		Description:     req.Description,
		Lat:             req.Lat,
		Lng:             req.Lng,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		IsHidden:        req.IsHidden,
		PricePerDay:     req.PricePerDay,
		MonthlyDiscount: req.MonthlyDiscount,
		TagIDs:          tagIDs,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dto, err := c.officeService.BuildOfficeDTO(ctx, office)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto)
}

// ----------------------------------------------------------------
// PUT /api/v1/offices/{officeID}
// ----------------------------------------------------------------
func (c *OfficesController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	office, ok := ownedOffice(w, r, c.officeService, userID)
	if !ok {
		return
	}

	var req dtos.UpdateOfficeRequest
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

	in, err := mergeOfficeInput(office, req)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnprocessableEntity, utils.ErrCodeValidation,
			"The given data was invalid", map[string]string{"tags": "Invalid tag"},
		)
		return
	}

	updated, err := c.officeService.Update(ctx, office, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dto, err := c.officeService.BuildOfficeDTO(ctx, updated)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto)
}

// ----------------------------------------------------------------
// DELETE /api/v1/offices/{officeID}
// ----------------------------------------------------------------
func (c *OfficesController) DestroyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	office, ok := ownedOffice(w, r, c.officeService, userID)
	if !ok {
		return
	}

	if err := c.officeService.Delete(r.Context(), office); err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

func criteriaFromRequest(r *http.Request) (filters.Criteria, error) {
	q := r.URL.Query()
	c := filters.Criteria{UserID: optionalUserID(r)}

	if v := q.Get("hostId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c, err
		}
		c.HostID = &id
	}
	if v := q.Get("visitorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c, err
		}
		c.VisitorID = &id
	}
	if latStr, lngStr := q.Get("lat"), q.Get("lng"); latStr != "" && lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return c, err
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			return c, err
		}
		c.Lat, c.Lng = &lat, &lng
	}
	if tags := q["tags"]; len(tags) > 0 {
		ids, err := parseUUIDs(tags)
		if err != nil {
			return c, err
		}
		c.TagIDs = ids
	}
	return c, nil
}

func mergeOfficeInput(office *models.Office, req dtos.UpdateOfficeRequest) (services.OfficeInput, error) {
	in := services.OfficeInput{
		FeaturedImageID: office.FeaturedImageID,
		Title:           office.Title,
		Description:     office.Description,
		Lat:             office.Lat,
		Lng:             office.Lng,
		AddressLine1:    office.AddressLine1,
		AddressLine2:    office.AddressLine2,
		IsHidden:        office.IsHidden,
		PricePerDay:     office.PricePerDay,
		MonthlyDiscount: office.MonthlyDiscount,
	}
	if req.FeaturedImageID != nil {
		id, err := uuid.Parse(*req.FeaturedImageID)
		if err != nil {
			return in, err
		}
		in.FeaturedImageID = &id
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Lat != nil {
		in.Lat = *req.Lat
	}
	if req.Lng != nil {
		in.Lng = *req.Lng
	}
	if req.AddressLine1 != nil {
		in.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		in.AddressLine2 = req.AddressLine2
	}
	if req.IsHidden != nil {
		in.IsHidden = *req.IsHidden
	}
	if req.PricePerDay != nil {
		in.PricePerDay = *req.PricePerDay
	}
	if req.MonthlyDiscount != nil {
		in.MonthlyDiscount = *req.MonthlyDiscount
	}
	if req.Tags != nil {
		ids, err := parseUUIDs(req.Tags)
		if err != nil {
			return in, err
		}
		in.TagIDs = ids
	}
	return in, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
