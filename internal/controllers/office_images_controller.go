package controllers

import (
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/justatarek/ergodnc/internal/dtos"
	"github.com/justatarek/ergodnc/internal/services"
	"github.com/justatarek/ergodnc/internal/storage"
	"github.com/justatarek/ergodnc/internal/utils"
)

// maxImageUploadBytes caps a single office photo upload at 5 MiB.
const maxImageUploadBytes = 5 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type OfficeImagesController struct {
	officeService *services.OfficeService
	blobs         storage.BlobStorage
}

func NewOfficeImagesController(os *services.OfficeService, blobs storage.BlobStorage) *OfficeImagesController {
	return &OfficeImagesController{officeService: os, blobs: blobs}
}

// ----------------------------------------------------------------
// POST /api/v1/offices/{officeID}/images
// ----------------------------------------------------------------
func (c *OfficeImagesController) StoreHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	office, ok := ownedOffice(w, r, c.officeService, userID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid multipart payload", nil, err,
		)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnprocessableEntity, utils.ErrCodeValidation,
			"The given data was invalid", map[string]string{"image": "The image field is required"},
		)
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		utils.RespondErrorWithCode(
			w, http.StatusUnprocessableEntity, utils.ErrCodeValidation,
			"The given data was invalid", map[string]string{"image": "The image must be a jpg, jpeg, png or webp file"},
		)
		return
	}

	img, err := c.officeService.AddImage(r.Context(), office, header.Filename, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.ImageDTO{
		ID:   img.ID,
		Path: img.Path,
		URL:  c.blobs.URLFor(img.Path),
	})
}

// ----------------------------------------------------------------
// DELETE /api/v1/offices/{officeID}/images/{imageID}
// ----------------------------------------------------------------
func (c *OfficeImagesController) DestroyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	office, ok := ownedOffice(w, r, c.officeService, userID)
	if !ok {
		return
	}

	imageID, err := uuid.Parse(mux.Vars(r)["imageID"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid image id", nil,
		)
		return
	}

	if err := c.officeService.DeleteImage(r.Context(), office, imageID); err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusNoContent, nil)
}
