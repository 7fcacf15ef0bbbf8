package services

import (
	"context"

	"github.com/justatarek/ergodnc/internal/dtos"
	"github.com/justatarek/ergodnc/internal/models"
)

// BuildOfficeDTO loads the office's owner, tags, images, featured image
// and the count of Active reservations into one response shape.
func (s *OfficeService) BuildOfficeDTO(ctx context.Context, office *models.Office) (*dtos.OfficeDTO, error) {
	user, err := s.userRepo.GetByID(ctx, office.UserID)
	if err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.ListByOfficeID(ctx, office.ID)
	if err != nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByOwner(ctx, models.ImageOwnerOffice, office.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.reservationRepo.CountActive(ctx, office.ID)
	if err != nil {
		return nil, err
	}

	dto := &dtos.OfficeDTO{
		ID:                office.ID,
		Title:             office.Title,
		Description:       office.Description,
		Lat:               office.Lat,
		Lng:               office.Lng,
		AddressLine1:      office.AddressLine1,
		AddressLine2:      office.AddressLine2,
		ApprovalStatus:    string(office.ApprovalStatus),
		IsHidden:          office.IsHidden,
		PricePerDay:       office.PricePerDay,
		MonthlyDiscount:   office.MonthlyDiscount,
		User:              dtos.NewUserDTO(user),
		Tags:              dtos.NewTagDTOs(tags),
		Images:            make([]dtos.ImageDTO, 0, len(images)),
		ReservationsCount: count,
		CreatedAt:         office.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:         office.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	for _, img := range images {
		imgDTO := dtos.ImageDTO{ID: img.ID, Path: img.Path, URL: s.blobs.URLFor(img.Path)}
		dto.Images = append(dto.Images, imgDTO)
		if office.FeaturedImageID != nil && *office.FeaturedImageID == img.ID {
			featured := imgDTO
			dto.FeaturedImage = &featured
		}
	}
	return dto, nil
}
