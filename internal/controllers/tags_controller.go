package controllers

import (
	"net/http"

	"github.com/justatarek/ergodnc/internal/dtos"
	"github.com/justatarek/ergodnc/internal/services"
	"github.com/justatarek/ergodnc/internal/utils"
)

type TagsController struct {
	officeService *services.OfficeService
}

func NewTagsController(os *services.OfficeService) *TagsController {
	return &TagsController{officeService: os}
}

// GET /api/v1/tags
func (c *TagsController) IndexHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := c.officeService.ListTags(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewTagDTOs(tags))
}
