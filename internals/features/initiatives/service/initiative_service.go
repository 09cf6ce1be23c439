// file: internals/features/initiatives/service/initiative_service.go
package service

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/features/initiatives/dto"
	"tamilvalam_backend/internals/features/initiatives/model"
	"tamilvalam_backend/internals/features/initiatives/repository"
	helper "tamilvalam_backend/internals/helpers"
	"tamilvalam_backend/internals/helpers/search"
	"tamilvalam_backend/internals/helpers/storage"
)

// searchHitCap bounds how many index hits feed the SQL page query.
const searchHitCap = 1000

type InitiativeService struct {
	db    *gorm.DB
	store storage.Store
	index search.Index // nil: SQL LIKE search
	log   *zap.Logger
}

func NewInitiativeService(db *gorm.DB, store storage.Store, index search.Index, log *zap.Logger) *InitiativeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InitiativeService{db: db, store: store, index: index, log: log}
}

func (s *InitiativeService) repo() *repository.InitiativeRepository {
	return repository.NewInitiativeRepository(s.db)
}

/* =========================================================
   READ
========================================================= */

func (s *InitiativeService) List(ctx context.Context, q dto.ListQuery) ([]model.Initiative, helper.Pagination, error) {
	q.Q = strings.TrimSpace(q.Q)
	q.Bureau = strings.TrimSpace(q.Bureau)
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	if q.Status != "" && !model.IsValidStatus(q.Status) {
		return nil, helper.Pagination{}, fiber.NewError(fiber.StatusBadRequest, "Invalid status filter")
	}

	paging := helper.NewPaging(q.Page, q.Limit, helper.DefaultLimit, helper.MaxLimit)
	filter := repository.ListFilter{ListQuery: q, Offset: paging.Offset, Limit: paging.Limit}

	if q.Q != "" && s.index != nil {
		ids, err := s.index.SearchIDs(q.Q, searchHitCap)
		if err != nil {
			s.log.Warn("search index unavailable, falling back to SQL", zap.Error(err))
		} else {
			filter.IDs = parseIDs(ids)
		}
	}

	rows, total, err := s.repo().List(ctx, filter)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	return rows, helper.BuildPagination(total, paging), nil
}

func (s *InitiativeService) Get(ctx context.Context, id uuid.UUID) (*model.Initiative, error) {
	m, err := s.repo().FindWithImages(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, errInitiativeNotFound)
	}
	return m, nil
}

func (s *InitiativeService) ExistsByTitle(ctx context.Context, titleEN string) (bool, error) {
	return s.repo().ExistsByTitle(ctx, strings.TrimSpace(titleEN))
}

func (s *InitiativeService) Bureaus(ctx context.Context) ([]string, error) {
	out, err := s.repo().Bureaus(ctx)
	if out == nil {
		out = []string{}
	}
	return out, err
}

func (s *InitiativeService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	return s.repo().Stats(ctx)
}

/* =========================================================
   WRITE
========================================================= */

func (s *InitiativeService) Create(ctx context.Context, req dto.CreateInitiativeRequest) (*model.Initiative, error) {
	req.Normalize()
	m, err := req.ToModel()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.repo().Create(ctx, m); err != nil {
		return nil, err
	}
	s.indexDoc(m)
	return m, nil
}

func (s *InitiativeService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateInitiativeRequest) (*model.Initiative, error) {
	up, err := req.ToUpdates()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var out *model.Initiative
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repository.NewInitiativeRepository(tx)
		cur, err := r.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(err, errInitiativeNotFound)
		}
		if len(up) > 0 {
			if err := r.Updates(ctx, id, up); err != nil {
				return err
			}
		}
		out, err = r.FindByID(ctx, cur.InitiativeID)
		if err != nil {
			return err
		}
		if out.InitiativeStartDate != nil && out.InitiativeEndDate != nil &&
			out.InitiativeEndDate.Before(*out.InitiativeStartDate) {
			return fiber.NewError(fiber.StatusBadRequest, "initiative_end_date must not be before initiative_start_date")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.indexDoc(out)
	return out, nil
}

// Delete removes the initiative together with its image records; the image
// files are removed after commit.
func (s *InitiativeService) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	var removed []model.InitiativeImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repository.NewInitiativeRepository(tx)
		if _, err := r.FindByIDForUpdate(ctx, id); err != nil {
			return notFoundOr(err, errInitiativeNotFound)
		}
		var err error
		removed, err = repository.NewImageRepository(tx).DeleteByInitiative(ctx, id)
		if err != nil {
			return err
		}
		return r.Delete(ctx, id)
	})
	if err != nil {
		return 0, err
	}

	for _, img := range removed {
		if rmErr := s.store.Remove(img.InitiativeImageFilePath); rmErr != nil {
			s.log.Warn("remove image file", zap.String("path", img.InitiativeImageFilePath), zap.Error(rmErr))
		}
	}
	if s.index != nil {
		if err := s.index.Delete(id.String()); err != nil {
			s.log.Warn("search delete", zap.String("initiative_id", id.String()), zap.Error(err))
		}
	}
	return len(removed), nil
}

// Reindex pushes every initiative to the search index.
func (s *InitiativeService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, fiber.NewError(fiber.StatusServiceUnavailable, "Search index is not configured")
	}
	rows, err := s.repo().All(ctx)
	if err != nil {
		return 0, err
	}
	for i := range rows {
		if err := s.index.Upsert(toDocument(&rows[i])); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

/* =========================================================
   helpers
========================================================= */

func (s *InitiativeService) indexDoc(m *model.Initiative) {
	if s.index == nil || m == nil {
		return
	}
	if err := s.index.Upsert(toDocument(m)); err != nil {
		s.log.Warn("search upsert", zap.String("initiative_id", m.InitiativeID.String()), zap.Error(err))
	}
}

func toDocument(m *model.Initiative) search.Document {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return search.Document{
		ID:            m.InitiativeID.String(),
		TitleEN:       m.InitiativeTitleEN,
		TitleTA:       deref(m.InitiativeTitleTA),
		DescriptionEN: deref(m.InitiativeDescriptionEN),
		DescriptionTA: deref(m.InitiativeDescriptionTA),
		Bureau:        m.InitiativeBureau,
		Status:        string(m.InitiativeStatus),
		Tags:          dto.Tags(m),
	}
}

func parseIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
