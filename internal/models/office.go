package models

import (
	"time"

	"github.com/google/uuid"
)

type OfficeApprovalStatus string

const (
	OfficeStatusPending  OfficeApprovalStatus = "pending"
	OfficeStatusApproved OfficeApprovalStatus = "approved"
)

type Office struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	FeaturedImageID *uuid.UUID           `json:"featured_image_id,omitempty"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Lat             float64              `json:"lat"`
	Lng             float64              `json:"lng"`
	AddressLine1    string               `json:"address_line1"`
	AddressLine2    *string              `json:"address_line2,omitempty"`
	ApprovalStatus  OfficeApprovalStatus `json:"approval_status"`
	IsHidden        bool                 `json:"is_hidden"`
	PricePerDay     int                  `json:"price_per_day"`
	MonthlyDiscount int                  `json:"monthly_discount"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
