package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/studiokawa/proofroom/internal/domain"
	"github.com/studiokawa/proofroom/internal/infra/database/models"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, entry domain.Activity) error {
	model := models.Activity{
		GalleryID: entry.GalleryID,
		Action:    entry.Action,
		ProofID:   entry.ProofID,
		UserEmail: entry.UserEmail,
		CDate:     entry.Timestamp,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *ActivityRepository) ListByGallery(ctx context.Context, galleryID string, limit int) ([]domain.Activity, error) {
	query := r.db.WithContext(ctx).
		Where("gallery_id = ?", galleryID).
		Order("c_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.Activity
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	activities := make([]domain.Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, domain.Activity{
			ID:        row.ID,
			GalleryID: row.GalleryID,
			Action:    row.Action,
			ProofID:   row.ProofID,
			UserEmail: row.UserEmail,
			Timestamp: row.CDate,
		})
	}
	return activities, nil
}
