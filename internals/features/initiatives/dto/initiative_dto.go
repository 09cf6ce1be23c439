// file: internals/features/initiatives/dto/initiative_dto.go
package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"

	"tamilvalam_backend/internals/features/initiatives/model"
)

/* =========================================================
   Helpers
========================================================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// parseDatePtr accepts "2006-01-02" or RFC3339.
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, errors.New("invalid date " + v + ", use YYYY-MM-DD")
	}
	return &t, nil
}

func tagsJSON(tags []string) (datatypes.JSON, error) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(clean)
	return datatypes.JSON(b), err
}

// Tags decodes the JSON tag column; bad data yields nil.
func Tags(m *model.Initiative) []string {
	if len(m.InitiativeTags) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(m.InitiativeTags, &out); err != nil {
		return nil
	}
	return out
}

/*
Tri-state field for partial updates:
- Absent : not updated
- null   : set column to NULL
- value  : set to value
*/
type UpdateField[T any] struct {
	set   bool
	null  bool
	value T
}

func (f *UpdateField[T]) UnmarshalJSON(b []byte) error {
	f.set = true
	if string(b) == "null" {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	return json.Unmarshal(b, &f.value)
}

func (f UpdateField[T]) ShouldUpdate() bool { return f.set }
func (f UpdateField[T]) IsNull() bool       { return f.set && f.null }
func (f UpdateField[T]) Val() T             { return f.value }

func Set[T any](v T) UpdateField[T] { return UpdateField[T]{set: true, value: v} }
func Null[T any]() UpdateField[T]   { return UpdateField[T]{set: true, null: true} }

/* =========================================================
   CREATE
========================================================= */

type CreateInitiativeRequest struct {
	InitiativeTitleEN       string   `json:"initiative_title_en" validate:"required,min=2,max=200"`
	InitiativeTitleTA       *string  `json:"initiative_title_ta" validate:"omitempty,max=200"`
	InitiativeDescriptionEN *string  `json:"initiative_description_en"`
	InitiativeDescriptionTA *string  `json:"initiative_description_ta"`
	InitiativeBureau        string   `json:"initiative_bureau" validate:"required,max=120"`
	InitiativeStatus        string   `json:"initiative_status" validate:"omitempty,oneof=planned ongoing completed on_hold"`
	InitiativeLocation      *string  `json:"initiative_location" validate:"omitempty,max=200"`
	InitiativeStartDate     *string  `json:"initiative_start_date"`
	InitiativeEndDate       *string  `json:"initiative_end_date"`
	InitiativeTags          []string `json:"initiative_tags" validate:"omitempty,max=20,dive,max=50"`
}

func (r *CreateInitiativeRequest) Normalize() {
	r.InitiativeTitleEN = strings.TrimSpace(r.InitiativeTitleEN)
	r.InitiativeBureau = strings.TrimSpace(r.InitiativeBureau)
	r.InitiativeStatus = strings.ToLower(strings.TrimSpace(r.InitiativeStatus))
	r.InitiativeTitleTA = trimPtr(r.InitiativeTitleTA)
	r.InitiativeDescriptionEN = trimPtr(r.InitiativeDescriptionEN)
	r.InitiativeDescriptionTA = trimPtr(r.InitiativeDescriptionTA)
	r.InitiativeLocation = trimPtr(r.InitiativeLocation)
}

// ToModel never sets the image cache fields; those start at zero/null.
func (r CreateInitiativeRequest) ToModel() (*model.Initiative, error) {
	start, err := parseDatePtr(r.InitiativeStartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDatePtr(r.InitiativeEndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, errors.New("initiative_end_date must not be before initiative_start_date")
	}
	tags, err := tagsJSON(r.InitiativeTags)
	if err != nil {
		return nil, err
	}
	status := model.InitiativeStatus(r.InitiativeStatus)
	if status == "" {
		status = model.InitiativeStatusPlanned
	}
	return &model.Initiative{
		InitiativeTitleEN:       r.InitiativeTitleEN,
		InitiativeTitleTA:       r.InitiativeTitleTA,
		InitiativeDescriptionEN: r.InitiativeDescriptionEN,
		InitiativeDescriptionTA: r.InitiativeDescriptionTA,
		InitiativeBureau:        r.InitiativeBureau,
		InitiativeStatus:        status,
		InitiativeLocation:      r.InitiativeLocation,
		InitiativeStartDate:     start,
		InitiativeEndDate:       end,
		InitiativeTags:          tags,
	}, nil
}

/* =========================================================
   UPDATE (PUT, partial)
========================================================= */

type UpdateInitiativeRequest struct {
	InitiativeTitleEN       UpdateField[string]   `json:"initiative_title_en"`
	InitiativeTitleTA       UpdateField[*string]  `json:"initiative_title_ta"`
	InitiativeDescriptionEN UpdateField[*string]  `json:"initiative_description_en"`
	InitiativeDescriptionTA UpdateField[*string]  `json:"initiative_description_ta"`
	InitiativeBureau        UpdateField[string]   `json:"initiative_bureau"`
	InitiativeStatus        UpdateField[string]   `json:"initiative_status"`
	InitiativeLocation      UpdateField[*string]  `json:"initiative_location"`
	InitiativeStartDate     UpdateField[*string]  `json:"initiative_start_date"`
	InitiativeEndDate       UpdateField[*string]  `json:"initiative_end_date"`
	InitiativeTags          UpdateField[[]string] `json:"initiative_tags"`
}

// ToUpdates builds the column map for gorm Updates. images_count and
// primary_image_url are not accepted here.
func (r UpdateInitiativeRequest) ToUpdates() (map[string]any, error) {
	up := map[string]any{}

	if r.InitiativeTitleEN.ShouldUpdate() {
		v := strings.TrimSpace(r.InitiativeTitleEN.Val())
		if r.InitiativeTitleEN.IsNull() || len(v) < 2 || len(v) > 200 {
			return nil, errors.New("initiative_title_en must be 2-200 characters")
		}
		up["initiative_title_en"] = v
	}
	if r.InitiativeBureau.ShouldUpdate() {
		v := strings.TrimSpace(r.InitiativeBureau.Val())
		if r.InitiativeBureau.IsNull() || v == "" || len(v) > 120 {
			return nil, errors.New("initiative_bureau is required")
		}
		up["initiative_bureau"] = v
	}
	if r.InitiativeStatus.ShouldUpdate() {
		v := strings.ToLower(strings.TrimSpace(r.InitiativeStatus.Val()))
		if !model.IsValidStatus(v) {
			return nil, errors.New("initiative_status must be one of planned, ongoing, completed, on_hold")
		}
		up["initiative_status"] = v
	}

	optText := map[string]UpdateField[*string]{
		"initiative_title_ta":       r.InitiativeTitleTA,
		"initiative_description_en": r.InitiativeDescriptionEN,
		"initiative_description_ta": r.InitiativeDescriptionTA,
		"initiative_location":       r.InitiativeLocation,
	}
	for col, f := range optText {
		if !f.ShouldUpdate() {
			continue
		}
		if v := trimPtr(f.Val()); v != nil && !f.IsNull() {
			up[col] = *v
		} else {
			up[col] = nil
		}
	}

	dates := map[string]UpdateField[*string]{
		"initiative_start_date": r.InitiativeStartDate,
		"initiative_end_date":   r.InitiativeEndDate,
	}
	for col, f := range dates {
		if !f.ShouldUpdate() {
			continue
		}
		t, err := parseDatePtr(f.Val())
		if err != nil {
			return nil, err
		}
		if t == nil {
			up[col] = nil
		} else {
			up[col] = *t
		}
	}

	if r.InitiativeTags.ShouldUpdate() {
		tags, err := tagsJSON(r.InitiativeTags.Val())
		if err != nil {
			return nil, err
		}
		if tags == nil {
			up["initiative_tags"] = nil
		} else {
			up["initiative_tags"] = tags
		}
	}
	return up, nil
}

/* =========================================================
   LIST
========================================================= */

type ListQuery struct {
	Q      string `query:"q"`
	Bureau string `query:"bureau"`
	Status string `query:"status"`
	Sort   string `query:"sort"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

var sortColumns = map[string]string{
	"newest": "initiative_created_at DESC",
	"oldest": "initiative_created_at ASC",
	"title":  "initiative_title_en ASC",
	"-title": "initiative_title_en DESC",
	"status": "initiative_status ASC, initiative_created_at DESC",
}

// OrderClause maps ?sort= to a whitelisted ORDER BY; unknown values fall back to newest.
func (q ListQuery) OrderClause() string {
	if o, ok := sortColumns[strings.ToLower(strings.TrimSpace(q.Sort))]; ok {
		return o
	}
	return sortColumns["newest"]
}

/* =========================================================
   RESPONSES
========================================================= */

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type BureauCount struct {
	Bureau string `json:"bureau"`
	Count  int64  `json:"count"`
}

type StatsResponse struct {
	Total       int64         `json:"total"`
	TotalImages int64         `json:"total_images"`
	WithImages  int64         `json:"with_images"`
	ByStatus    []StatusCount `json:"by_status"`
	ByBureau    []BureauCount `json:"by_bureau"`
}

type UploadImagesResponse struct {
	Initiative *model.Initiative       `json:"initiative"`
	Images     []model.InitiativeImage `json:"images"`
}

type RecomputeResponse struct {
	InitiativeID    string  `json:"initiative_id"`
	ImagesCount     int     `json:"initiative_images_count"`
	PrimaryImageURL *string `json:"initiative_primary_image_url"`
	Changed         bool    `json:"changed"`
}
