// file: internals/features/initiatives/service/image_service.go
package service

import (
	"context"
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/features/initiatives/dto"
	"tamilvalam_backend/internals/features/initiatives/model"
	"tamilvalam_backend/internals/features/initiatives/repository"
	"tamilvalam_backend/internals/helpers/events"
	"tamilvalam_backend/internals/helpers/metrics"
	"tamilvalam_backend/internals/helpers/storage"
)

var (
	errInitiativeNotFound = fiber.NewError(fiber.StatusNotFound, "Initiative not found")
	errImageNotFound      = fiber.NewError(fiber.StatusNotFound, "Image not found")
	errNoFiles            = fiber.NewError(fiber.StatusBadRequest, "Please upload at least one image file")
)

/*
ImageService runs the three image workflows. Each one:
  - runs in a single transaction holding the initiative row lock
  - writes is_primary = true only through ImageRepository.SetPrimary
  - keeps images_count / primary_image_url in step with the image rows

Files are written before the transaction and removed again if it fails;
files of deleted records are removed after commit and failures only logged.
*/
type ImageService struct {
	db        *gorm.DB
	store     storage.Store
	publisher events.Publisher
	log       *zap.Logger
}

func NewImageService(db *gorm.DB, store storage.Store, publisher events.Publisher, log *zap.Logger) *ImageService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageService{db: db, store: store, publisher: publisher, log: log}
}

func notFoundOr(err error, nf *fiber.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return err
}

/* =========================================================
   UPLOAD
========================================================= */

func (s *ImageService) Upload(ctx context.Context, initiativeID uuid.UUID, files []storage.Upload) (*dto.UploadImagesResponse, error) {
	if len(files) == 0 {
		return nil, errNoFiles
	}
	if _, err := repository.NewInitiativeRepository(s.db).FindByID(ctx, initiativeID); err != nil {
		return nil, notFoundOr(err, errInitiativeNotFound)
	}

	if err := s.store.EnsureDir(); err != nil {
		s.log.Error("ensure upload dir", zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to prepare image storage")
	}

	stored := make([]*storage.StoredFile, 0, len(files))
	for _, f := range files {
		sf, err := s.store.Save(ctx, f)
		if err != nil {
			s.log.Error("store image", zap.String("file", f.Filename), zap.Error(err))
			s.discard(stored)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to store image "+f.Filename)
		}
		stored = append(stored, sf)
	}

	var out dto.UploadImagesResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		initRepo := repository.NewInitiativeRepository(tx)
		imgRepo := repository.NewImageRepository(tx)

		ini, err := initRepo.FindByIDForUpdate(ctx, initiativeID)
		if err != nil {
			return notFoundOr(err, errInitiativeNotFound)
		}
		current, err := imgRepo.FindPrimary(ctx, initiativeID)
		if err != nil {
			return err
		}

		created := make([]model.InitiativeImage, len(stored))
		for i, sf := range stored {
			created[i] = model.InitiativeImage{
				InitiativeImageInitiativeID:  initiativeID,
				InitiativeImageFilePath:      sf.URL,
				InitiativeImageThumbnailPath: sf.ThumbnailURL,
				InitiativeImageOriginalName:  files[i].Filename,
				InitiativeImageMimeType:      files[i].ContentType,
				InitiativeImageSizeBytes:     sf.Size,
				InitiativeImageWidth:         sf.Width,
				InitiativeImageHeight:        sf.Height,
				InitiativeImageSortOrder:     ini.InitiativeImagesCount + i + 1,
			}
			if err := imgRepo.Create(ctx, &created[i]); err != nil {
				return err
			}
		}

		primaryURL := ini.InitiativePrimaryImageURL
		switch {
		case current == nil:
			// no primary yet: the first file of this batch takes it
			if err := imgRepo.SetPrimary(ctx, initiativeID, created[0].InitiativeImageID); err != nil {
				return err
			}
			created[0].InitiativeImageIsPrimary = true
			primaryURL = &created[0].InitiativeImageFilePath
		case primaryURL == nil:
			primaryURL = &current.InitiativeImageFilePath
		}

		count := ini.InitiativeImagesCount + len(created)
		if err := initRepo.SetImageCache(ctx, initiativeID, count, primaryURL); err != nil {
			return err
		}
		ini.InitiativeImagesCount = count
		ini.InitiativePrimaryImageURL = primaryURL

		out = dto.UploadImagesResponse{Initiative: ini, Images: created}
		return nil
	})
	if err != nil {
		s.discard(stored)
		return nil, err
	}

	metrics.ImagesUploaded.Add(float64(len(out.Images)))
	if len(out.Images) > 0 && out.Images[0].InitiativeImageIsPrimary {
		metrics.PrimaryReassigned.Inc()
	}
	ids := make([]string, len(out.Images))
	paths := make([]string, len(out.Images))
	for i, img := range out.Images {
		ids[i] = img.InitiativeImageID.String()
		paths[i] = img.InitiativeImageFilePath
	}
	s.publish(ctx, events.Event{
		Type:         events.ImagesUploaded,
		InitiativeID: initiativeID.String(),
		ImageIDs:     ids,
		FilePaths:    paths,
		ImagesCount:  out.Initiative.InitiativeImagesCount,
		PrimaryURL:   out.Initiative.InitiativePrimaryImageURL,
	})
	return &out, nil
}

/* =========================================================
   DELETE
========================================================= */

// Delete removes one image. initiativeID may be uuid.Nil for the unscoped
// route; otherwise an image of another initiative is reported as not found.
func (s *ImageService) Delete(ctx context.Context, initiativeID, imageID uuid.UUID) error {
	var (
		removed  *model.InitiativeImage
		promoted bool
		count    int
		primary  *string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ini, img, err := lockTarget(ctx, tx, initiativeID, imageID)
		if err != nil {
			return err
		}
		initRepo := repository.NewInitiativeRepository(tx)
		imgRepo := repository.NewImageRepository(tx)

		primary = ini.InitiativePrimaryImageURL
		if img.InitiativeImageIsPrimary {
			next, err := imgRepo.FirstRemaining(ctx, ini.InitiativeID, img.InitiativeImageID)
			if err != nil {
				return err
			}
			if next != nil {
				if err := imgRepo.SetPrimary(ctx, ini.InitiativeID, next.InitiativeImageID); err != nil {
					return err
				}
				primary = &next.InitiativeImageFilePath
				promoted = true
			} else {
				primary = nil
			}
		}

		if err := imgRepo.Delete(ctx, img.InitiativeImageID); err != nil {
			return err
		}
		count = max(ini.InitiativeImagesCount-1, 0)
		if err := initRepo.SetImageCache(ctx, ini.InitiativeID, count, primary); err != nil {
			return err
		}
		removed = img
		return nil
	})
	if err != nil {
		return err
	}

	s.removeFile(removed.InitiativeImageFilePath)
	metrics.ImagesDeleted.Inc()
	if promoted {
		metrics.PrimaryReassigned.Inc()
	}
	s.publish(ctx, events.Event{
		Type:         events.ImageDeleted,
		InitiativeID: removed.InitiativeImageInitiativeID.String(),
		ImageIDs:     []string{removed.InitiativeImageID.String()},
		FilePaths:    []string{removed.InitiativeImageFilePath},
		ImagesCount:  count,
		PrimaryURL:   primary,
	})
	return nil
}

/* =========================================================
   SET PRIMARY
========================================================= */

// SetPrimary makes imageID the initiative's primary image. Repeating the
// call is a no-op.
func (s *ImageService) SetPrimary(ctx context.Context, initiativeID, imageID uuid.UUID) (*model.InitiativeImage, error) {
	var target *model.InitiativeImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ini, img, err := lockTarget(ctx, tx, initiativeID, imageID)
		if err != nil {
			return err
		}
		imgRepo := repository.NewImageRepository(tx)
		if err := imgRepo.SetPrimary(ctx, ini.InitiativeID, img.InitiativeImageID); err != nil {
			return notFoundOr(err, errImageNotFound)
		}
		url := img.InitiativeImageFilePath
		if err := repository.NewInitiativeRepository(tx).
			SetImageCache(ctx, ini.InitiativeID, ini.InitiativeImagesCount, &url); err != nil {
			return err
		}
		target, err = imgRepo.FindByID(ctx, img.InitiativeImageID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.PrimaryReassigned.Inc()
	s.publish(ctx, events.Event{
		Type:         events.PrimaryChanged,
		InitiativeID: target.InitiativeImageInitiativeID.String(),
		ImageIDs:     []string{target.InitiativeImageID.String()},
		FilePaths:    []string{target.InitiativeImageFilePath},
		PrimaryURL:   &target.InitiativeImageFilePath,
	})
	return target, nil
}

/* =========================================================
   RECONCILE
========================================================= */

// RecomputeCounters rebuilds images_count and primary_image_url from the
// image rows. More than one primary keeps the lowest sort_order; no primary
// with images left promotes the lowest sort_order.
func (s *ImageService) RecomputeCounters(ctx context.Context, initiativeID uuid.UUID) (*dto.RecomputeResponse, error) {
	var out dto.RecomputeResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		initRepo := repository.NewInitiativeRepository(tx)
		imgRepo := repository.NewImageRepository(tx)

		ini, err := initRepo.FindByIDForUpdate(ctx, initiativeID)
		if err != nil {
			return notFoundOr(err, errInitiativeNotFound)
		}
		images, err := imgRepo.ListByInitiative(ctx, initiativeID)
		if err != nil {
			return err
		}

		var (
			primary   *model.InitiativeImage
			primaries int
		)
		for i := range images {
			if images[i].InitiativeImageIsPrimary {
				if primary == nil {
					primary = &images[i]
				}
				primaries++
			}
		}
		changed := primaries > 1
		if primary == nil && len(images) > 0 {
			primary = &images[0]
			changed = true
		}
		if changed {
			if err := imgRepo.SetPrimary(ctx, initiativeID, primary.InitiativeImageID); err != nil {
				return err
			}
		}

		var url *string
		if primary != nil {
			url = &primary.InitiativeImageFilePath
		}
		if len(images) != ini.InitiativeImagesCount || !sameURL(url, ini.InitiativePrimaryImageURL) {
			changed = true
		}
		if changed {
			if err := initRepo.SetImageCache(ctx, initiativeID, len(images), url); err != nil {
				return err
			}
		}

		out = dto.RecomputeResponse{
			InitiativeID:    initiativeID.String(),
			ImagesCount:     len(images),
			PrimaryImageURL: url,
			Changed:         changed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Changed {
		metrics.CountersRepaired.Inc()
		s.log.Info("initiative image cache repaired",
			zap.String("initiative_id", out.InitiativeID),
			zap.Int("images_count", out.ImagesCount))
		s.publish(ctx, events.Event{
			Type:         events.CountersRepaired,
			InitiativeID: out.InitiativeID,
			ImagesCount:  out.ImagesCount,
			PrimaryURL:   out.PrimaryImageURL,
		})
	}
	return &out, nil
}

// RecomputeAll reconciles every initiative and returns how many changed.
// One failing initiative does not stop the run.
func (s *ImageService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := repository.NewInitiativeRepository(s.db).AllIDs(ctx)
	if err != nil {
		return 0, err
	}
	repaired := 0
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		res, err := s.RecomputeCounters(ctx, id)
		if err != nil {
			s.log.Warn("recompute failed", zap.String("initiative_id", id.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if res.Changed {
			repaired++
		}
	}
	return repaired, errors.Join(errs...)
}

/* =========================================================
   helpers
========================================================= */

// lockTarget resolves the initiative (row-locked) and the image inside tx.
// With initiativeID set, the initiative is checked first and the image must
// belong to it.
func lockTarget(ctx context.Context, tx *gorm.DB, initiativeID, imageID uuid.UUID) (*model.Initiative, *model.InitiativeImage, error) {
	initRepo := repository.NewInitiativeRepository(tx)
	imgRepo := repository.NewImageRepository(tx)

	if initiativeID != uuid.Nil {
		ini, err := initRepo.FindByIDForUpdate(ctx, initiativeID)
		if err != nil {
			return nil, nil, notFoundOr(err, errInitiativeNotFound)
		}
		img, err := imgRepo.FindByID(ctx, imageID)
		if err != nil {
			return nil, nil, notFoundOr(err, errImageNotFound)
		}
		if img.InitiativeImageInitiativeID != ini.InitiativeID {
			return nil, nil, errImageNotFound
		}
		return ini, img, nil
	}

	img, err := imgRepo.FindByID(ctx, imageID)
	if err != nil {
		return nil, nil, notFoundOr(err, errImageNotFound)
	}
	ini, err := initRepo.FindByIDForUpdate(ctx, img.InitiativeImageInitiativeID)
	if err != nil {
		return nil, nil, notFoundOr(err, errInitiativeNotFound)
	}
	// re-read under the lock; a concurrent delete may have won
	img, err = imgRepo.FindByID(ctx, imageID)
	if err != nil {
		return nil, nil, notFoundOr(err, errImageNotFound)
	}
	return ini, img, nil
}

func sameURL(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *ImageService) removeFile(publicURL string) {
	if err := s.store.Remove(publicURL); err != nil {
		metrics.FileRemoveFailures.Inc()
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("image file already gone", zap.String("path", publicURL))
			return
		}
		s.log.Error("remove image file", zap.String("path", publicURL), zap.Error(err))
	}
}

func (s *ImageService) discard(stored []*storage.StoredFile) {
	for _, sf := range stored {
		s.removeFile(sf.URL)
	}
}

func (s *ImageService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("publish event", zap.String("type", e.Type), zap.Error(err))
	}
}
