package repository

import (
	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
	"github.com/studiokawa/proofroom/internal/infra/database/models"
)

func galleryToModel(g domain.Gallery) models.Gallery {
	return models.Gallery{
		ID:             g.ID,
		Name:           g.Name,
		SchoolID:       g.SchoolID,
		SchoolName:     g.SchoolName,
		OrganizationID: g.OrganizationID,
		PasswordHash:   g.PasswordHash,
		Deadline:       g.Deadline,
		IsArchived:     g.IsArchived,
		TotalImages:    g.TotalImages,
		ApprovedCount:  g.ApprovedCount,
		DeniedCount:    g.DeniedCount,
		Status:         string(g.Status),
		CDate:          g.CreatedAt,
	}
}

func galleryFromModel(m models.Gallery) domain.Gallery {
	return domain.Gallery{
		ID:             m.ID,
		Name:           m.Name,
		SchoolID:       m.SchoolID,
		SchoolName:     m.SchoolName,
		OrganizationID: m.OrganizationID,
		PasswordHash:   m.PasswordHash,
		Deadline:       m.Deadline,
		IsArchived:     m.IsArchived,
		TotalImages:    m.TotalImages,
		ApprovedCount:  m.ApprovedCount,
		DeniedCount:    m.DeniedCount,
		Status:         proofroom.GalleryStatus(m.Status),
		CreatedAt:      m.CDate,
	}
}

func proofToModel(p domain.Proof) models.Proof {
	return models.Proof{
		ID:             p.ID,
		GalleryID:      p.GalleryID,
		Filename:       p.Filename,
		ImageURL:       p.ImageURL,
		ImageRef:       p.ImageRef,
		ThumbnailURL:   p.ThumbnailURL,
		ThumbnailRef:   p.ThumbnailRef,
		DisplayOrder:   p.Order,
		Status:         string(p.Status),
		DenialNotes:    p.DenialNotes,
		CurrentVersion: p.CurrentVersion,
		VersionCount:   p.VersionCount,
		HasVersions:    p.HasVersions,
		LastRevisionID: p.LastRevisionID,
		ReviewedBy:     p.ReviewedBy,
		ReviewedAt:     p.ReviewedAt,
		CDate:          p.CreatedAt,
	}
}

func proofFromModel(m models.Proof) domain.Proof {
	return domain.Proof{
		ID:             m.ID,
		GalleryID:      m.GalleryID,
		Filename:       m.Filename,
		ImageURL:       m.ImageURL,
		ImageRef:       m.ImageRef,
		ThumbnailURL:   m.ThumbnailURL,
		ThumbnailRef:   m.ThumbnailRef,
		Order:          m.DisplayOrder,
		Status:         proofroom.ProofStatus(m.Status),
		DenialNotes:    m.DenialNotes,
		CurrentVersion: m.CurrentVersion,
		VersionCount:   m.VersionCount,
		HasVersions:    m.HasVersions,
		LastRevisionID: m.LastRevisionID,
		ReviewedBy:     m.ReviewedBy,
		ReviewedAt:     m.ReviewedAt,
		CreatedAt:      m.CDate,
	}
}

func revisionToModel(r domain.Revision) models.Revision {
	return models.Revision{
		ID:               r.ID,
		ProofID:          r.ProofID,
		GalleryID:        r.GalleryID,
		OriginalImageURL: r.OriginalImageURL,
		NewImageURL:      r.NewImageURL,
		NewImageRef:      r.NewImageRef,
		NewThumbnailRef:  r.NewThumbnailRef,
		VersionNumber:    r.VersionNumber,
		PreviousVersion:  r.PreviousVersion,
		DenialNotes:      r.DenialNotes,
		StudioNotes:      r.StudioNotes,
		ReplacedBy:       r.ReplacedBy,
		ReplacedAt:       r.ReplacedAt,
		IsLatest:         r.IsLatest,
	}
}

func revisionFromModel(m models.Revision) domain.Revision {
	return domain.Revision{
		ID:               m.ID,
		ProofID:          m.ProofID,
		GalleryID:        m.GalleryID,
		OriginalImageURL: m.OriginalImageURL,
		NewImageURL:      m.NewImageURL,
		NewImageRef:      m.NewImageRef,
		NewThumbnailRef:  m.NewThumbnailRef,
		VersionNumber:    m.VersionNumber,
		PreviousVersion:  m.PreviousVersion,
		DenialNotes:      m.DenialNotes,
		StudioNotes:      m.StudioNotes,
		ReplacedBy:       m.ReplacedBy,
		ReplacedAt:       m.ReplacedAt,
		IsLatest:         m.IsLatest,
	}
}
