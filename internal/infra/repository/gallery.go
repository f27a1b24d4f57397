package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/studiokawa/proofroom/internal/domain"
	"github.com/studiokawa/proofroom/internal/infra/database/models"
)

type GalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) Create(ctx context.Context, gallery domain.Gallery) error {
	model := galleryToModel(gallery)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *GalleryRepository) Get(ctx context.Context, id string) (domain.Gallery, error) {
	var model models.Gallery
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Gallery{}, domain.NotFoundError{Resource: "gallery"}
		}
		return domain.Gallery{}, err
	}
	return galleryFromModel(model), nil
}

func (r *GalleryRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Gallery, error) {
	var rows []models.Gallery
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("c_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	galleries := make([]domain.Gallery, 0, len(rows))
	for _, row := range rows {
		galleries = append(galleries, galleryFromModel(row))
	}
	return galleries, nil
}

func (r *GalleryRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Gallery{}).
		Where("id = ?", id).
		Update("is_archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "gallery"}
	}
	return nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Activity{}, "gallery_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Revision{}, "gallery_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Proof{}, "gallery_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Gallery{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError{Resource: "gallery"}
		}
		return nil
	})
}
