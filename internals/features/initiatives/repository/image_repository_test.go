package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"gorm.io/gorm"

	"tamilvalam_backend/internals/databases/dbtest"
	"tamilvalam_backend/internals/features/initiatives/model"
)

func seed(t *testing.T, db *gorm.DB, n int) (*model.Initiative, []model.InitiativeImage) {
	t.Helper()
	ctx := context.Background()
	ini := &model.Initiative{InitiativeTitleEN: "Seed", InitiativeBureau: "Ops"}
	if err := NewInitiativeRepository(db).Create(ctx, ini); err != nil {
		t.Fatal(err)
	}
	imgs := make([]model.InitiativeImage, n)
	for i := range imgs {
		imgs[i] = model.InitiativeImage{
			InitiativeImageInitiativeID: ini.InitiativeID,
			InitiativeImageFilePath:     "/uploads/initiatives/" + uuid.NewString() + ".jpg",
			InitiativeImageSortOrder:    i + 1,
			InitiativeImageIsPrimary:    true, // Create must ignore this
		}
		if err := NewImageRepository(db).Create(ctx, &imgs[i]); err != nil {
			t.Fatal(err)
		}
	}
	return ini, imgs
}

func primaryIDs(t *testing.T, db *gorm.DB, initiativeID uuid.UUID) []uuid.UUID {
	t.Helper()
	var ids []uuid.UUID
	if err := db.Model(&model.InitiativeImage{}).
		Where("initiative_image_initiative_id = ? AND initiative_image_is_primary = ?", initiativeID, true).
		Pluck("initiative_image_id", &ids).Error; err != nil {
		t.Fatal(err)
	}
	return ids
}

func TestCreateNeverInsertsPrimary(t *testing.T) {
	is := is.New(t)
	db := dbtest.New(t)
	ini, _ := seed(t, db, 3)
	is.Equal(len(primaryIDs(t, db, ini.InitiativeID)), 0)
}

func TestSetPrimaryClearsSiblings(t *testing.T) {
	is := is.New(t)
	db := dbtest.New(t)
	ctx := context.Background()
	ini, imgs := seed(t, db, 3)
	repo := NewImageRepository(db)

	is.NoErr(repo.SetPrimary(ctx, ini.InitiativeID, imgs[0].InitiativeImageID))
	is.Equal(primaryIDs(t, db, ini.InitiativeID), []uuid.UUID{imgs[0].InitiativeImageID})

	is.NoErr(repo.SetPrimary(ctx, ini.InitiativeID, imgs[2].InitiativeImageID))
	is.Equal(primaryIDs(t, db, ini.InitiativeID), []uuid.UUID{imgs[2].InitiativeImageID})

	is.NoErr(repo.SetPrimary(ctx, ini.InitiativeID, imgs[2].InitiativeImageID))
	is.Equal(primaryIDs(t, db, ini.InitiativeID), []uuid.UUID{imgs[2].InitiativeImageID})

	p, err := repo.FindPrimary(ctx, ini.InitiativeID)
	is.NoErr(err)
	is.Equal(p.InitiativeImageID, imgs[2].InitiativeImageID)
}

func TestSetPrimaryRejectsForeignImage(t *testing.T) {
	is := is.New(t)
	db := dbtest.New(t)
	ctx := context.Background()
	a, aImgs := seed(t, db, 2)
	_, bImgs := seed(t, db, 1)
	repo := NewImageRepository(db)

	is.NoErr(repo.SetPrimary(ctx, a.InitiativeID, aImgs[1].InitiativeImageID))
	err := repo.SetPrimary(ctx, a.InitiativeID, bImgs[0].InitiativeImageID)
	is.True(errors.Is(err, gorm.ErrRecordNotFound))

	// nothing was cleared
	is.Equal(primaryIDs(t, db, a.InitiativeID), []uuid.UUID{aImgs[1].InitiativeImageID})
}

func TestFirstRemainingAndDeleteByInitiative(t *testing.T) {
	is := is.New(t)
	db := dbtest.New(t)
	ctx := context.Background()
	ini, imgs := seed(t, db, 3)
	repo := NewImageRepository(db)

	next, err := repo.FirstRemaining(ctx, ini.InitiativeID, imgs[0].InitiativeImageID)
	is.NoErr(err)
	is.Equal(next.InitiativeImageID, imgs[1].InitiativeImageID)

	none, err := repo.FindPrimary(ctx, ini.InitiativeID)
	is.NoErr(err)
	is.Equal(none, nil)

	removed, err := repo.DeleteByInitiative(ctx, ini.InitiativeID)
	is.NoErr(err)
	is.Equal(len(removed), 3)

	next, err = repo.FirstRemaining(ctx, ini.InitiativeID, uuid.New())
	is.NoErr(err)
	is.Equal(next, nil)
}

func TestSetImageCacheFloorsAtZero(t *testing.T) {
	is := is.New(t)
	db := dbtest.New(t)
	ctx := context.Background()
	ini, _ := seed(t, db, 0)
	repo := NewInitiativeRepository(db)

	url := "/uploads/initiatives/x.jpg"
	is.NoErr(repo.SetImageCache(ctx, ini.InitiativeID, -3, &url))
	got, err := repo.FindByIDForUpdate(ctx, ini.InitiativeID)
	is.NoErr(err)
	is.Equal(got.InitiativeImagesCount, 0)
	is.Equal(*got.InitiativePrimaryImageURL, url)
}
