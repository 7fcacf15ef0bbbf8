package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/justatarek/ergodnc/internal/filters"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/repositories"
	"github.com/justatarek/ergodnc/internal/storage"
	"github.com/justatarek/ergodnc/internal/utils"
)

// TxRunner runs fn inside one all-or-nothing transaction. Production wires
// repositories.InTx; tests substitute a pass-through.
type TxRunner func(ctx context.Context, fn func(tx pgx.Tx) error) error

// OfficeInput carries the caller-supplied office fields for create and
// update. TagIDs == nil means "tags not provided"; an empty non-nil slice
// clears the tag set.
type OfficeInput struct {
	FeaturedImageID *uuid.UUID
	Title           string
	Description     string
	Lat             float64
	Lng             float64
	AddressLine1    string
	AddressLine2    *string
	IsHidden        bool
	PricePerDay     int
	MonthlyDiscount int
	TagIDs          []uuid.UUID
}

type OfficeService struct {
	officeRepo      repositories.OfficeRepository
	reservationRepo repositories.ReservationRepository
	tagRepo         repositories.TagRepository
	imageRepo       repositories.ImageRepository
	userRepo        repositories.UserRepository
	blobs           storage.BlobStorage
	notifier        Notifier
	runTx           TxRunner
}

func NewOfficeService(
	officeRepo repositories.OfficeRepository,
	reservationRepo repositories.ReservationRepository,
	tagRepo repositories.TagRepository,
	imageRepo repositories.ImageRepository,
	userRepo repositories.UserRepository,
	blobs storage.BlobStorage,
	notifier Notifier,
	runTx TxRunner,
) *OfficeService {
	return &OfficeService{
		officeRepo:      officeRepo,
		reservationRepo: reservationRepo,
		tagRepo:         tagRepo,
		imageRepo:       imageRepo,
		userRepo:        userRepo,
		blobs:           blobs,
		notifier:        notifier,
		runTx:           runTx,
	}
}

/* ------------------------------------------------------------------
   Listing
------------------------------------------------------------------ */

// List runs the filter pipeline over the office store. The stage list is
// spelled out here, at the call site.
func (s *OfficeService) List(ctx context.Context, criteria filters.Criteria, page int) ([]*models.Office, error) {
	q := filters.Apply(filters.NewOfficeQuery(), criteria,
		filters.HostVisibility,
		filters.VisitorHistory,
		filters.Nearest,
		filters.Tags,
	)
	return s.officeRepo.List(ctx, q, page)
}

func (s *OfficeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Office, error) {
	return s.officeRepo.GetByID(ctx, id)
}

func (s *OfficeService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.tagRepo.ListAll(ctx)
}

/* ------------------------------------------------------------------
   Create / Update / Delete
------------------------------------------------------------------ */

// Create inserts a new office. The approval status is always pending no
// matter what the caller sent; tags attach in the same transaction, and
// admins are notified only after the commit.
func (s *OfficeService) Create(ctx context.Context, ownerID uuid.UUID, in OfficeInput) (*models.Office, error) {
	if err := s.assertTagsExist(ctx, in.TagIDs); err != nil {
		return nil, err
	}

	office := &models.Office{
		ID:              uuid.New(),
		UserID:          ownerID,
		FeaturedImageID: nil,
		Title:           in.Title,
		Description:     in.Description,
		Lat:             in.Lat,
		Lng:             in.Lng,
		AddressLine1:    in.AddressLine1,
		AddressLine2:    in.AddressLine2,
		ApprovalStatus:  models.OfficeStatusPending,
		IsHidden:        in.IsHidden,
		PricePerDay:     in.PricePerDay,
		MonthlyDiscount: in.MonthlyDiscount,
	}

	err := s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.officeRepo.WithTx(tx).Create(ctx, office); err != nil {
			return err
		}
		if len(in.TagIDs) > 0 {
			return s.tagRepo.WithTx(tx).AttachToOffice(ctx, office.ID, in.TagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAdmins(ctx, office)
	return office, nil
}

// Update applies field changes to an existing office. If lat, lng or
// price_per_day actually changed, the office drops back to pending and
// admins are notified — once, and only for a change-carrying update. The
// provided tag set, when non-nil, replaces the old one wholesale.
func (s *OfficeService) Update(ctx context.Context, office *models.Office, in OfficeInput) (*models.Office, error) {
	if err := s.assertTagsExist(ctx, in.TagIDs); err != nil {
		return nil, err
	}
	if err := s.assertFeaturedImage(ctx, office, in.FeaturedImageID); err != nil {
		return nil, err
	}

	// The re-review decision comes from the diff, before anything is
	// persisted.
	requiresReview := in.Lat != office.Lat ||
		in.Lng != office.Lng ||
		in.PricePerDay != office.PricePerDay

	office.FeaturedImageID = in.FeaturedImageID
	office.Title = in.Title
	office.Description = in.Description
	office.Lat = in.Lat
	office.Lng = in.Lng
	office.AddressLine1 = in.AddressLine1
	office.AddressLine2 = in.AddressLine2
	office.IsHidden = in.IsHidden
	office.PricePerDay = in.PricePerDay
	office.MonthlyDiscount = in.MonthlyDiscount
	if requiresReview {
		office.ApprovalStatus = models.OfficeStatusPending
	}

	err := s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.officeRepo.WithTx(tx).Update(ctx, office); err != nil {
			return err
		}
		if in.TagIDs != nil {
			return s.tagRepo.WithTx(tx).ReplaceForOffice(ctx, office.ID, in.TagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if requiresReview {
		s.notifyAdmins(ctx, office)
	}
	return office, nil
}

// Delete soft-deletes an office that has no Active reservations. All of
// its images leave blob storage and lose their rows first; those deletions
// are not atomic with the soft-delete but must succeed before it runs.
func (s *OfficeService) Delete(ctx context.Context, office *models.Office) error {
	hasActive, err := s.reservationRepo.ExistsActive(ctx, office.ID)
	if err != nil {
		return err
	}
	if hasActive {
		return utils.NewValidationError("office", "Cannot delete this office!")
	}

	images, err := s.imageRepo.ListByOwner(ctx, models.ImageOwnerOffice, office.ID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.blobs.Delete(ctx, img.Path); err != nil {
			return fmt.Errorf("delete image blob %s: %w", img.Path, err)
		}
		if err := s.imageRepo.Delete(ctx, img.ID); err != nil {
			return err
		}
	}

	return s.officeRepo.SoftDelete(ctx, office.ID)
}

/* ------------------------------------------------------------------
   Images
------------------------------------------------------------------ */

// AddImage stores the blob, then the record.
func (s *OfficeService) AddImage(ctx context.Context, office *models.Office, filename string, contents io.Reader) (*models.Image, error) {
	img := &models.Image{
		ID:        uuid.New(),
		OwnerKind: models.ImageOwnerOffice,
		OwnerID:   office.ID,
	}
	img.Path = fmt.Sprintf("office-images/%s%s", img.ID, path.Ext(filename))

	if err := s.blobs.Put(ctx, img.Path, contents); err != nil {
		return nil, err
	}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// DeleteImage refuses to remove the office's only image or its current
// featured image.
func (s *OfficeService) DeleteImage(ctx context.Context, office *models.Office, imageID uuid.UUID) error {
	img, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img == nil || img.OwnerKind != models.ImageOwnerOffice || img.OwnerID != office.ID {
		return utils.ErrNotFound
	}

	count, err := s.imageRepo.CountByOwner(ctx, models.ImageOwnerOffice, office.ID)
	if err != nil {
		return err
	}
	if count == 1 {
		return utils.NewValidationError("image", "Cannot delete the only image.")
	}
	if office.FeaturedImageID != nil && *office.FeaturedImageID == img.ID {
		return utils.NewValidationError("image", "Cannot delete the featured image.")
	}

	if err := s.blobs.Delete(ctx, img.Path); err != nil {
		return err
	}
	return s.imageRepo.Delete(ctx, img.ID)
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

func (s *OfficeService) assertTagsExist(ctx context.Context, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	found, err := s.tagRepo.ListByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	for _, id := range tagIDs {
		if !known[id] {
			return utils.NewValidationError("tags", "Invalid tag")
		}
	}
	return nil
}

// A featured image must be one of this office's own images.
func (s *OfficeService) assertFeaturedImage(ctx context.Context, office *models.Office, imageID *uuid.UUID) error {
	if imageID == nil {
		return nil
	}
	img, err := s.imageRepo.GetByID(ctx, *imageID)
	if err != nil {
		return err
	}
	if img == nil || img.OwnerKind != models.ImageOwnerOffice || img.OwnerID != office.ID {
		return utils.NewValidationError("featured_image_id", "Invalid featured_image_id")
	}
	return nil
}

func (s *OfficeService) notifyAdmins(ctx context.Context, office *models.Office) {
	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		utils.Logger.WithError(err).Warn("Skipping pending-approval notifications, admin lookup failed")
		return
	}
	s.notifier.OfficePendingApproval(admins, office)
}
