package dtos

import (
	"github.com/google/uuid"

	"github.com/justatarek/ergodnc/internal/models"
)

/*
   StoreOfficeRequest creates an office. Tags are optional; when present
   every id must reference an existing tag.
*/
type StoreOfficeRequest struct {
	Title           string   `json:"title" validate:"required,max=255"`
	Description     string   `json:"description" validate:"required"`
	Lat             float64  `json:"lat" validate:"required,latitude"`
	Lng             float64  `json:"lng" validate:"required,longitude"`
	AddressLine1    string   `json:"address_line1" validate:"required,max=255"`
	AddressLine2    *string  `json:"address_line2" validate:"omitempty,max=255"`
	IsHidden        bool     `json:"is_hidden"`
	PricePerDay     int      `json:"price_per_day" validate:"required,min=100"`
	MonthlyDiscount int      `json:"monthly_discount" validate:"omitempty,min=0,max=90"`
	Tags            []string `json:"tags" validate:"omitempty,min=1,dive,uuid4"`
}

/*
   UpdateOfficeRequest is a partial update: nil means "leave unchanged".
*/
type UpdateOfficeRequest struct {
	FeaturedImageID *string  `json:"featured_image_id" validate:"omitempty,uuid4"`
	Title           *string  `json:"title" validate:"omitempty,max=255"`
	Description     *string  `json:"description" validate:"omitempty"`
	Lat             *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng             *float64 `json:"lng" validate:"omitempty,longitude"`
	AddressLine1    *string  `json:"address_line1" validate:"omitempty,max=255"`
	AddressLine2    *string  `json:"address_line2" validate:"omitempty,max=255"`
	IsHidden        *bool    `json:"is_hidden"`
	PricePerDay     *int     `json:"price_per_day" validate:"omitempty,min=100"`
	MonthlyDiscount *int     `json:"monthly_discount" validate:"omitempty,min=0,max=90"`
	Tags            []string `json:"tags" validate:"omitempty,min=1,dive,uuid4"`
}

type ImageDTO struct {
	ID   uuid.UUID `json:"id"`
	Path string    `json:"path"`
	URL  string    `json:"url"`
}

type TagDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type OfficeDTO struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	AddressLine1    string    `json:"address_line1"`
	AddressLine2    *string   `json:"address_line2,omitempty"`
	ApprovalStatus  string    `json:"approval_status"`
	IsHidden        bool      `json:"is_hidden"`
	PricePerDay     int       `json:"price_per_day"`
	MonthlyDiscount int       `json:"monthly_discount"`

	User              *UserDTO   `json:"user,omitempty"`
	Tags              []TagDTO   `json:"tags"`
	Images            []ImageDTO `json:"images"`
	FeaturedImage     *ImageDTO  `json:"featured_image,omitempty"`
	ReservationsCount int        `json:"reservations_count"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListOfficesResponse struct {
	Offices []OfficeDTO `json:"offices"`
	Page    int         `json:"page"`
}

func NewUserDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewTagDTOs(tags []*models.Tag) []TagDTO {
	out := make([]TagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagDTO{ID: t.ID, Name: t.Name})
	}
	return out
}
