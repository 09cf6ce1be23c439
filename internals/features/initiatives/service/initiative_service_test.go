package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/matryer/is"
	"go.uber.org/zap"

	"tamilvalam_backend/internals/features/initiatives/dto"
	"tamilvalam_backend/internals/features/initiatives/model"
	"tamilvalam_backend/internals/helpers/search"
)

func strPtr(s string) *string { return &s }

func TestCreateDefaultsAndValidation(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.initiatives.Create(ctx, dto.CreateInitiativeRequest{
		InitiativeTitleEN:   "  Tamil Reading Circles ",
		InitiativeTitleTA:   strPtr("தமிழ் வாசிப்பு வட்டங்கள்"),
		InitiativeBureau:    "Education",
		InitiativeStartDate: strPtr("2024-01-10"),
		InitiativeTags:      []string{"reading", " ", "youth"},
	})
	is.NoErr(err)
	is.True(m.InitiativeID != uuid.Nil)
	is.Equal(m.InitiativeTitleEN, "Tamil Reading Circles")
	is.Equal(m.InitiativeStatus, model.InitiativeStatusPlanned)
	is.Equal(m.InitiativeImagesCount, 0)
	is.Equal(m.InitiativePrimaryImageURL, nil)
	is.Equal(dto.Tags(m), []string{"reading", "youth"})

	_, err = f.initiatives.Create(ctx, dto.CreateInitiativeRequest{
		InitiativeTitleEN:   "Bad dates",
		InitiativeBureau:    "X",
		InitiativeStartDate: strPtr("2024-05-01"),
		InitiativeEndDate:   strPtr("2024-04-01"),
	})
	is.Equal(statusOf(err), fiber.StatusBadRequest)
}

func TestUpdateIsPartial(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	ini := f.newInitiative(t, "Original", "Culture")

	var req dto.UpdateInitiativeRequest
	is.NoErr(json.Unmarshal([]byte(`{
		"initiative_status": "ongoing",
		"initiative_location": "Chennai",
		"initiative_images_count": 99
	}`), &req))

	got, err := f.initiatives.Update(ctx, ini.InitiativeID, req)
	is.NoErr(err)
	is.Equal(got.InitiativeTitleEN, "Original")
	is.Equal(got.InitiativeStatus, model.InitiativeStatusOngoing)
	is.Equal(*got.InitiativeLocation, "Chennai")
	is.Equal(got.InitiativeImagesCount, 0)

	var clear dto.UpdateInitiativeRequest
	is.NoErr(json.Unmarshal([]byte(`{"initiative_location": null}`), &clear))
	got, err = f.initiatives.Update(ctx, ini.InitiativeID, clear)
	is.NoErr(err)
	is.Equal(got.InitiativeLocation, nil)
	is.Equal(got.InitiativeStatus, model.InitiativeStatusOngoing)

	var bad dto.UpdateInitiativeRequest
	is.NoErr(json.Unmarshal([]byte(`{"initiative_status": "done"}`), &bad))
	_, err = f.initiatives.Update(ctx, ini.InitiativeID, bad)
	is.Equal(statusOf(err), fiber.StatusBadRequest)

	_, err = f.initiatives.Update(ctx, uuid.New(), req)
	is.Equal(statusOf(err), fiber.StatusNotFound)
}

func TestDeleteInitiativeCascadesImages(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	ini := f.newInitiative(t, "Cascade", "Ops")
	other := f.newInitiative(t, "Other", "Ops")

	res, err := f.images.Upload(ctx, ini.InitiativeID, uploads(t, "a.jpg", "b.jpg"))
	is.NoErr(err)
	_, err = f.images.Upload(ctx, other.InitiativeID, uploads(t, "c.jpg"))
	is.NoErr(err)

	n, err := f.initiatives.Delete(ctx, ini.InitiativeID)
	is.NoErr(err)
	is.Equal(n, 2)

	var count int64
	is.NoErr(f.db.Model(&model.InitiativeImage{}).
		Where("initiative_image_initiative_id = ?", ini.InitiativeID).Count(&count).Error)
	is.Equal(count, int64(0))
	for _, img := range res.Images {
		is.True(!f.fileExists(img.InitiativeImageFilePath))
	}
	is.Equal(len(f.imagesOf(t, other.InitiativeID)), 1)

	_, err = f.initiatives.Get(ctx, ini.InitiativeID)
	is.Equal(statusOf(err), fiber.StatusNotFound)
	_, err = f.initiatives.Delete(ctx, ini.InitiativeID)
	is.Equal(statusOf(err), fiber.StatusNotFound)
}

func TestGetPreloadsImagesInSortOrder(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	ini := f.newInitiative(t, "Gallery", "Arts")
	res, err := f.images.Upload(ctx, ini.InitiativeID, uploads(t, "a.jpg", "b.jpg", "c.jpg"))
	is.NoErr(err)

	got, err := f.initiatives.Get(ctx, ini.InitiativeID)
	is.NoErr(err)
	is.Equal(len(got.Images), 3)
	for i := range got.Images {
		is.Equal(got.Images[i].InitiativeImageID, res.Images[i].InitiativeImageID)
	}
}

func TestListFiltersSortAndPaging(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()

	for _, c := range []struct{ title, bureau, status string }{
		{"Alpha school", "Education", "ongoing"},
		{"Beta clinic", "Health", "planned"},
		{"Gamma school", "Education", "completed"},
		{"Delta library", "Culture", "ongoing"},
	} {
		_, err := f.initiatives.Create(ctx, dto.CreateInitiativeRequest{
			InitiativeTitleEN: c.title, InitiativeBureau: c.bureau, InitiativeStatus: c.status,
		})
		is.NoErr(err)
	}

	rows, p, err := f.initiatives.List(ctx, dto.ListQuery{Q: "SCHOOL", Sort: "title"})
	is.NoErr(err)
	is.Equal(p.Total, int64(2))
	is.Equal(rows[0].InitiativeTitleEN, "Alpha school")
	is.Equal(rows[1].InitiativeTitleEN, "Gamma school")

	rows, _, err = f.initiatives.List(ctx, dto.ListQuery{Bureau: "Education", Status: "completed"})
	is.NoErr(err)
	is.Equal(len(rows), 1)
	is.Equal(rows[0].InitiativeTitleEN, "Gamma school")

	rows, p, err = f.initiatives.List(ctx, dto.ListQuery{Sort: "-title", Page: 2, Limit: 3})
	is.NoErr(err)
	is.Equal(p.Total, int64(4))
	is.Equal(p.TotalPages, 2)
	is.True(p.HasPrev)
	is.True(!p.HasNext)
	is.Equal(len(rows), 1)
	is.Equal(rows[0].InitiativeTitleEN, "Alpha school")

	_, p, err = f.initiatives.List(ctx, dto.ListQuery{Limit: 1000})
	is.NoErr(err)
	is.Equal(p.Limit, 100)

	_, _, err = f.initiatives.List(ctx, dto.ListQuery{Status: "bogus"})
	is.Equal(statusOf(err), fiber.StatusBadRequest)
}

func TestBureausAndStats(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.initiatives.Bureaus(ctx)
	is.NoErr(err)
	is.Equal(len(empty), 0)

	a := f.newInitiative(t, "One", "Health")
	f.newInitiative(t, "Two", "Education")
	f.newInitiative(t, "Three", "Health")
	_, err = f.images.Upload(ctx, a.InitiativeID, uploads(t, "a.jpg", "b.jpg"))
	is.NoErr(err)

	bureaus, err := f.initiatives.Bureaus(ctx)
	is.NoErr(err)
	is.Equal(bureaus, []string{"Education", "Health"})

	st, err := f.initiatives.Stats(ctx)
	is.NoErr(err)
	is.Equal(st.Total, int64(3))
	is.Equal(st.TotalImages, int64(2))
	is.Equal(st.WithImages, int64(1))
	is.Equal(len(st.ByStatus), 1)
	is.Equal(st.ByStatus[0], dto.StatusCount{Status: "planned", Count: 3})
	is.Equal(st.ByBureau[0], dto.BureauCount{Bureau: "Health", Count: 2})
}

type memIndex struct {
	docs map[string]search.Document
	hits []string
}

func (m *memIndex) Upsert(d search.Document) error { m.docs[d.ID] = d; return nil }
func (m *memIndex) Delete(id string) error         { delete(m.docs, id); return nil }
func (m *memIndex) SearchIDs(string, int64) ([]string, error) {
	return m.hits, nil
}

func TestSearchIndexIsKeptInSync(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	ctx := context.Background()
	idx := &memIndex{docs: map[string]search.Document{}}
	svc := NewInitiativeService(f.db, f.store, idx, zap.NewNop())

	a, err := svc.Create(ctx, dto.CreateInitiativeRequest{InitiativeTitleEN: "Kolam workshop", InitiativeBureau: "Arts"})
	is.NoErr(err)
	b, err := svc.Create(ctx, dto.CreateInitiativeRequest{InitiativeTitleEN: "Silambam class", InitiativeBureau: "Sports"})
	is.NoErr(err)
	is.Equal(idx.docs[a.InitiativeID.String()].TitleEN, "Kolam workshop")

	idx.hits = []string{b.InitiativeID.String(), "not-a-uuid"}
	rows, p, err := svc.List(ctx, dto.ListQuery{Q: "anything"})
	is.NoErr(err)
	is.Equal(p.Total, int64(1))
	is.Equal(rows[0].InitiativeID, b.InitiativeID)

	idx.hits = []string{}
	rows, _, err = svc.List(ctx, dto.ListQuery{Q: "nothing"})
	is.NoErr(err)
	is.Equal(len(rows), 0)

	_, err = svc.Delete(ctx, a.InitiativeID)
	is.NoErr(err)
	_, ok := idx.docs[a.InitiativeID.String()]
	is.True(!ok)

	n, err := svc.Reindex(ctx)
	is.NoErr(err)
	is.Equal(n, 1)
}
