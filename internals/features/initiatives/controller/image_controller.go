package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "tamilvalam_backend/internals/helpers"
	"tamilvalam_backend/internals/helpers/storage"
)

func imageID(c *fiber.Ctx) (uuid.UUID, error) {
	return parseID(c, "imageId", "Image not found")
}

// scopedIDs reads :id when the route is nested under an initiative, and
// uuid.Nil otherwise.
func scopedIDs(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	parent := uuid.Nil
	if c.Params("id") != "" {
		id, err := initiativeID(c)
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		parent = id
	}
	img, err := imageID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return parent, img, nil
}

// POST /api/initiatives/:id/images
func (ctl *InitiativeController) UploadImages(c *fiber.Ctx) error {
	id, err := initiativeID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Please upload at least one image file")
	}
	if extra := storage.UnexpectedFields(form, ctl.Upload.FieldName); len(extra) > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Unexpected file field %q, use %q", extra[0], ctl.Upload.FieldName))
	}

	files := storage.CollectUploads(form, ctl.Upload.FieldName)
	if err := storage.ValidateUploads(files, ctl.Upload); err != nil {
		return err
	}

	res, err := ctl.Images.Upload(c.UserContext(), id, files)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, fmt.Sprintf("%d image(s) uploaded successfully", len(res.Images)), res)
}

// DELETE /api/initiatives/images/:imageId
// DELETE /api/initiatives/:id/images/:imageId
func (ctl *InitiativeController) DeleteImage(c *fiber.Ctx) error {
	parent, img, err := scopedIDs(c)
	if err != nil {
		return err
	}
	if err := ctl.Images.Delete(c.UserContext(), parent, img); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Image deleted successfully", nil)
}

// PATCH /api/initiatives/images/:imageId/primary
// PATCH /api/initiatives/:id/images/:imageId/primary
func (ctl *InitiativeController) SetPrimaryImage(c *fiber.Ctx) error {
	parent, img, err := scopedIDs(c)
	if err != nil {
		return err
	}
	out, err := ctl.Images.SetPrimary(c.UserContext(), parent, img)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Primary image updated successfully", out)
}

// POST /api/initiatives/:id/recompute
func (ctl *InitiativeController) Recompute(c *fiber.Ctx) error {
	id, err := initiativeID(c)
	if err != nil {
		return err
	}
	res, err := ctl.Images.RecomputeCounters(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Counters recomputed", res)
}
