// file: internals/features/initiatives/repository/image_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/features/initiatives/model"
)

type ImageRepository struct {
	DB *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{DB: db}
}

func (r *ImageRepository) WithTx(tx *gorm.DB) *ImageRepository {
	return &ImageRepository{DB: tx}
}

const orderBySort = "initiative_image_sort_order ASC, initiative_image_created_at ASC"

func (r *ImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InitiativeImage, error) {
	var m model.InitiativeImage
	if err := r.DB.WithContext(ctx).First(&m, "initiative_image_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ImageRepository) ListByInitiative(ctx context.Context, initiativeID uuid.UUID) ([]model.InitiativeImage, error) {
	var rows []model.InitiativeImage
	err := r.DB.WithContext(ctx).
		Where("initiative_image_initiative_id = ?", initiativeID).
		Order(orderBySort).
		Find(&rows).Error
	return rows, err
}

// FindPrimary returns (nil, nil) when the initiative has no primary image.
func (r *ImageRepository) FindPrimary(ctx context.Context, initiativeID uuid.UUID) (*model.InitiativeImage, error) {
	var m model.InitiativeImage
	err := r.DB.WithContext(ctx).
		Where("initiative_image_initiative_id = ? AND initiative_image_is_primary = ?", initiativeID, true).
		Order(orderBySort).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FirstRemaining is the lowest sort_order image other than excludeID, or (nil, nil).
func (r *ImageRepository) FirstRemaining(ctx context.Context, initiativeID, excludeID uuid.UUID) (*model.InitiativeImage, error) {
	var m model.InitiativeImage
	err := r.DB.WithContext(ctx).
		Where("initiative_image_initiative_id = ? AND initiative_image_id <> ?", initiativeID, excludeID).
		Order(orderBySort).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create always inserts a non-primary record; use SetPrimary afterwards.
func (r *ImageRepository) Create(ctx context.Context, m *model.InitiativeImage) error {
	m.InitiativeImageIsPrimary = false
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *ImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("initiative_image_id = ?", id).Delete(&model.InitiativeImage{}).Error
}

// DeleteByInitiative removes every image record of the initiative and returns them.
func (r *ImageRepository) DeleteByInitiative(ctx context.Context, initiativeID uuid.UUID) ([]model.InitiativeImage, error) {
	rows, err := r.ListByInitiative(ctx, initiativeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}
	err = r.DB.WithContext(ctx).
		Where("initiative_image_initiative_id = ?", initiativeID).
		Delete(&model.InitiativeImage{}).Error
	return rows, err
}

/*
SetPrimary is the only writer of is_primary = true.
 1. the target must belong to initiativeID (gorm.ErrRecordNotFound otherwise)
 2. clear every sibling that is primary
 3. flag the target

Run it inside the caller's transaction.
*/
func (r *ImageRepository) SetPrimary(ctx context.Context, initiativeID, imageID uuid.UUID) error {
	db := r.DB.WithContext(ctx)

	var n int64
	if err := db.Model(&model.InitiativeImage{}).
		Where("initiative_image_id = ? AND initiative_image_initiative_id = ?", imageID, initiativeID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := db.Model(&model.InitiativeImage{}).
		Where("initiative_image_initiative_id = ? AND initiative_image_id <> ? AND initiative_image_is_primary = ?",
			initiativeID, imageID, true).
		Update("initiative_image_is_primary", false).Error; err != nil {
		return err
	}

	return db.Model(&model.InitiativeImage{}).
		Where("initiative_image_id = ?", imageID).
		Update("initiative_image_is_primary", true).Error
}

func (r *ImageRepository) CountPrimary(ctx context.Context, initiativeID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.InitiativeImage{}).
		Where("initiative_image_initiative_id = ? AND initiative_image_is_primary = ?", initiativeID, true).
		Count(&n).Error
	return n, err
}
