// file: internals/features/initiatives/model/initiative_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InitiativeStatus string

const (
	InitiativeStatusPlanned   InitiativeStatus = "planned"
	InitiativeStatusOngoing   InitiativeStatus = "ongoing"
	InitiativeStatusCompleted InitiativeStatus = "completed"
	InitiativeStatusOnHold    InitiativeStatus = "on_hold"
)

/*
initiatives
  - images_count & primary_image_url are denormalized from initiative_images;
    only the image workflows (and RecomputeCounters) write them.
*/
type Initiative struct {
	InitiativeID uuid.UUID `gorm:"size:36;primaryKey;column:initiative_id" json:"initiative_id"`

	// Bilingual content
	InitiativeTitleEN       string  `gorm:"size:200;not null;column:initiative_title_en" json:"initiative_title_en"`
	InitiativeTitleTA       *string `gorm:"size:200;column:initiative_title_ta" json:"initiative_title_ta,omitempty"`
	InitiativeDescriptionEN *string `gorm:"type:text;column:initiative_description_en" json:"initiative_description_en,omitempty"`
	InitiativeDescriptionTA *string `gorm:"type:text;column:initiative_description_ta" json:"initiative_description_ta,omitempty"`

	InitiativeBureau    string           `gorm:"size:120;not null;index;column:initiative_bureau" json:"initiative_bureau"`
	InitiativeStatus    InitiativeStatus `gorm:"size:24;not null;default:planned;index;column:initiative_status" json:"initiative_status"`
	InitiativeLocation  *string          `gorm:"size:200;column:initiative_location" json:"initiative_location,omitempty"`
	InitiativeStartDate *time.Time       `gorm:"column:initiative_start_date" json:"initiative_start_date,omitempty"`
	InitiativeEndDate   *time.Time       `gorm:"column:initiative_end_date" json:"initiative_end_date,omitempty"`
	InitiativeTags      datatypes.JSON   `gorm:"column:initiative_tags" json:"initiative_tags,omitempty"`

	// Denormalized image cache
	InitiativeImagesCount     int     `gorm:"not null;default:0;column:initiative_images_count" json:"initiative_images_count"`
	InitiativePrimaryImageURL *string `gorm:"type:text;column:initiative_primary_image_url" json:"initiative_primary_image_url"`

	InitiativeCreatedAt time.Time `gorm:"autoCreateTime;column:initiative_created_at" json:"initiative_created_at"`
	InitiativeUpdatedAt time.Time `gorm:"autoUpdateTime;column:initiative_updated_at" json:"initiative_updated_at"`

	Images []InitiativeImage `gorm:"foreignKey:InitiativeImageInitiativeID;references:InitiativeID" json:"images,omitempty"`
}

func (Initiative) TableName() string { return "initiatives" }

func (m *Initiative) BeforeCreate(tx *gorm.DB) error {
	if m.InitiativeID == uuid.Nil {
		m.InitiativeID = uuid.New()
	}
	if m.InitiativeStatus == "" {
		m.InitiativeStatus = InitiativeStatusPlanned
	}
	return nil
}

func IsValidStatus(s string) bool {
	switch InitiativeStatus(s) {
	case InitiativeStatusPlanned, InitiativeStatusOngoing, InitiativeStatusCompleted, InitiativeStatusOnHold:
		return true
	}
	return false
}
