package domain

import (
	"time"

	"github.com/studiokawa/proofroom"
)

// Gallery is one proofing job: a named collection of proof images tied to a
// school, scoped to an organization (tenant). The counters are denormalized
// aggregates over its proofs and always satisfy
// 0 <= ApprovedCount + DeniedCount <= TotalImages.
type Gallery struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	SchoolID       string                  `json:"schoolID,omitempty"`
	SchoolName     string                  `json:"schoolName,omitempty"`
	OrganizationID string                  `json:"organizationID"`
	PasswordHash   *string                 `json:"-"`
	Deadline       *time.Time              `json:"deadline,omitempty"`
	IsArchived     bool                    `json:"isArchived"`
	TotalImages    int                     `json:"totalImages"`
	ApprovedCount  int                     `json:"approvedCount"`
	DeniedCount    int                     `json:"deniedCount"`
	Status         proofroom.GalleryStatus `json:"status"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// HasPassword reports whether the gallery requires password access.
func (g Gallery) HasPassword() bool {
	return g.PasswordHash != nil && *g.PasswordHash != ""
}
