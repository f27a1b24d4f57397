package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/studiokawa/proofroom/internal/domain"
	"github.com/studiokawa/proofroom/internal/infra/database/models"
)

type RevisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) ListByProof(ctx context.Context, proofID string) ([]domain.Revision, error) {
	var rows []models.Revision
	err := r.db.WithContext(ctx).
		Where("proof_id = ?", proofID).
		Order("version_number DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	revisions := make([]domain.Revision, 0, len(rows))
	for _, row := range rows {
		revisions = append(revisions, revisionFromModel(row))
	}
	return revisions, nil
}

func (r *RevisionRepository) ListByGallery(ctx context.Context, galleryID string) ([]domain.Revision, error) {
	var rows []models.Revision
	err := r.db.WithContext(ctx).
		Where("gallery_id = ?", galleryID).
		Order("replaced_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	revisions := make([]domain.Revision, 0, len(rows))
	for _, row := range rows {
		revisions = append(revisions, revisionFromModel(row))
	}
	return revisions, nil
}
