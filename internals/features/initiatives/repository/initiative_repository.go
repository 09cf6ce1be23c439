// file: internals/features/initiatives/repository/initiative_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tamilvalam_backend/internals/features/initiatives/dto"
	"tamilvalam_backend/internals/features/initiatives/model"
)

type InitiativeRepository struct {
	DB *gorm.DB
}

func NewInitiativeRepository(db *gorm.DB) *InitiativeRepository {
	return &InitiativeRepository{DB: db}
}

func (r *InitiativeRepository) WithTx(tx *gorm.DB) *InitiativeRepository {
	return &InitiativeRepository{DB: tx}
}

func (r *InitiativeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Initiative, error) {
	var m model.Initiative
	if err := r.DB.WithContext(ctx).First(&m, "initiative_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *InitiativeRepository) ExistsByTitle(ctx context.Context, titleEN string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.Initiative{}).
		Where("initiative_title_en = ?", titleEN).
		Count(&n).Error
	return n > 0, err
}

// FindByIDForUpdate takes a row lock (SELECT ... FOR UPDATE) so image
// workflows on the same initiative run one at a time. SQLite serializes
// writers on its own and has no row locks.
func (r *InitiativeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Initiative, error) {
	q := r.DB.WithContext(ctx)
	if r.DB.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.Initiative
	if err := q.First(&m, "initiative_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *InitiativeRepository) FindWithImages(ctx context.Context, id uuid.UUID) (*model.Initiative, error) {
	var m model.Initiative
	err := r.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("initiative_image_sort_order ASC, initiative_image_created_at ASC")
		}).
		First(&m, "initiative_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListFilter is ListQuery after paging/search resolution.
type ListFilter struct {
	dto.ListQuery
	IDs    []uuid.UUID // restrict to these ids (search index hits); nil = no restriction
	Offset int
	Limit  int
}

func (r *InitiativeRepository) List(ctx context.Context, f ListFilter) ([]model.Initiative, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Initiative{})

	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []model.Initiative{}, 0, nil
		}
		q = q.Where("initiative_id IN ?", f.IDs)
	} else if f.Q != "" {
		like := "%" + f.Q + "%"
		q = q.Where(`LOWER(initiative_title_en) LIKE LOWER(?)
			OR initiative_title_ta LIKE ?
			OR LOWER(initiative_description_en) LIKE LOWER(?)
			OR initiative_description_ta LIKE ?`, like, like, like, like)
	}
	if f.Bureau != "" {
		q = q.Where("initiative_bureau = ?", f.Bureau)
	}
	if f.Status != "" {
		q = q.Where("initiative_status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]model.Initiative, 0, f.Limit)
	if err := q.Order(f.OrderClause()).
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *InitiativeRepository) Bureaus(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&model.Initiative{}).
		Distinct("initiative_bureau").
		Where("initiative_bureau <> ''").
		Order("initiative_bureau ASC").
		Pluck("initiative_bureau", &out).Error
	return out, err
}

func (r *InitiativeRepository) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	db := r.DB.WithContext(ctx)
	out := &dto.StatsResponse{ByStatus: []dto.StatusCount{}, ByBureau: []dto.BureauCount{}}

	if err := db.Model(&model.Initiative{}).Count(&out.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Initiative{}).
		Where("initiative_images_count > 0").
		Count(&out.WithImages).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.InitiativeImage{}).Count(&out.TotalImages).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Initiative{}).
		Select("initiative_status AS status, COUNT(*) AS count").
		Group("initiative_status").
		Order("COUNT(*) DESC, initiative_status ASC").
		Scan(&out.ByStatus).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Initiative{}).
		Select("initiative_bureau AS bureau, COUNT(*) AS count").
		Group("initiative_bureau").
		Order("COUNT(*) DESC, initiative_bureau ASC").
		Scan(&out.ByBureau).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InitiativeRepository) Create(ctx context.Context, m *model.Initiative) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *InitiativeRepository) Updates(ctx context.Context, id uuid.UUID, up map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.Initiative{}).
		Where("initiative_id = ?", id).
		Updates(up).Error
}

// SetImageCache writes the denormalized image fields in one statement.
func (r *InitiativeRepository) SetImageCache(ctx context.Context, id uuid.UUID, count int, primaryURL *string) error {
	if count < 0 {
		count = 0
	}
	return r.DB.WithContext(ctx).Model(&model.Initiative{}).
		Where("initiative_id = ?", id).
		Updates(map[string]any{
			"initiative_images_count":      count,
			"initiative_primary_image_url": primaryURL,
		}).Error
}

func (r *InitiativeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("initiative_id = ?", id).Delete(&model.Initiative{}).Error
}

func (r *InitiativeRepository) AllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).Model(&model.Initiative{}).
		Order("initiative_created_at ASC").
		Pluck("initiative_id", &ids).Error
	return ids, err
}

func (r *InitiativeRepository) All(ctx context.Context) ([]model.Initiative, error) {
	var rows []model.Initiative
	err := r.DB.WithContext(ctx).Order("initiative_created_at ASC").Find(&rows).Error
	return rows, err
}
