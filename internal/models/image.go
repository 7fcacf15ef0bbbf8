package models

import (
	"time"

	"github.com/google/uuid"
)

// ImageOwnerKind is a closed set of entity kinds an image can belong to.
// Offices are the only owner kind today; adding another means adding a
// constant here and a CHECK constraint in the migration.
type ImageOwnerKind string

const (
	ImageOwnerOffice ImageOwnerKind = "office"
)

type Image struct {
	ID        uuid.UUID      `json:"id"`
	Path      string         `json:"path"`
	OwnerKind ImageOwnerKind `json:"owner_kind"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
}
