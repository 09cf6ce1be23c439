// file: internals/features/initiatives/model/initiative_image_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
initiative_images
  - At most one is_primary per initiative. Writes of is_primary=true go through
    ImageRepository.SetPrimary; Postgres also keeps a partial unique index.
  - sort_order ascending = upload order; lowest remaining wins on primary fallback.
*/
type InitiativeImage struct {
	InitiativeImageID           uuid.UUID `gorm:"size:36;primaryKey;column:initiative_image_id" json:"initiative_image_id"`
	InitiativeImageInitiativeID uuid.UUID `gorm:"size:36;not null;index;column:initiative_image_initiative_id" json:"initiative_image_initiative_id"`

	InitiativeImageFilePath      string  `gorm:"type:text;not null;column:initiative_image_file_path" json:"initiative_image_file_path"`
	InitiativeImageThumbnailPath *string `gorm:"type:text;column:initiative_image_thumbnail_path" json:"initiative_image_thumbnail_path,omitempty"`

	InitiativeImageOriginalName string `gorm:"size:255;column:initiative_image_original_name" json:"initiative_image_original_name,omitempty"`
	InitiativeImageMimeType     string `gorm:"size:64;column:initiative_image_mime_type" json:"initiative_image_mime_type,omitempty"`
	InitiativeImageSizeBytes    int64  `gorm:"not null;default:0;column:initiative_image_size_bytes" json:"initiative_image_size_bytes"`
	InitiativeImageWidth        int    `gorm:"not null;default:0;column:initiative_image_width" json:"initiative_image_width,omitempty"`
	InitiativeImageHeight       int    `gorm:"not null;default:0;column:initiative_image_height" json:"initiative_image_height,omitempty"`

	InitiativeImageIsPrimary bool `gorm:"not null;default:false;column:initiative_image_is_primary" json:"initiative_image_is_primary"`
	InitiativeImageSortOrder int  `gorm:"not null;default:0;index;column:initiative_image_sort_order" json:"initiative_image_sort_order"`

	InitiativeImageCreatedAt time.Time `gorm:"autoCreateTime;column:initiative_image_created_at" json:"initiative_image_created_at"`
	InitiativeImageUpdatedAt time.Time `gorm:"autoUpdateTime;column:initiative_image_updated_at" json:"initiative_image_updated_at"`
}

func (InitiativeImage) TableName() string { return "initiative_images" }

func (m *InitiativeImage) BeforeCreate(tx *gorm.DB) error {
	if m.InitiativeImageID == uuid.Nil {
		m.InitiativeImageID = uuid.New()
	}
	return nil
}
