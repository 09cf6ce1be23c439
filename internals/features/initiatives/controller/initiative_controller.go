package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tamilvalam_backend/internals/configs"
	"tamilvalam_backend/internals/features/initiatives/dto"
	"tamilvalam_backend/internals/features/initiatives/service"
	helper "tamilvalam_backend/internals/helpers"
)

type InitiativeController struct {
	Initiatives *service.InitiativeService
	Images      *service.ImageService
	Upload      configs.UploadConfig
	Validator   *validator.Validate
}

func NewInitiativeController(initiatives *service.InitiativeService, images *service.ImageService, upload configs.UploadConfig) *InitiativeController {
	return &InitiativeController{
		Initiatives: initiatives,
		Images:      images,
		Upload:      upload,
		Validator:   validator.New(),
	}
}

// An id that is not a UUID cannot name an existing row, so it reads as 404.
func parseID(c *fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, notFound)
	}
	return id, nil
}

func initiativeID(c *fiber.Ctx) (uuid.UUID, error) {
	return parseID(c, "id", "Initiative not found")
}

/* ================================
   READ
================================ */

// GET /api/initiatives
func (ctl *InitiativeController) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	p := helper.ResolvePaging(c, helper.DefaultLimit, helper.MaxLimit)
	q.Page, q.Limit = p.Page, p.Limit

	rows, pagination, err := ctl.Initiatives.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Initiatives fetched", rows, pagination)
}

// GET /api/initiatives/bureaus
func (ctl *InitiativeController) Bureaus(c *fiber.Ctx) error {
	bureaus, err := ctl.Initiatives.Bureaus(c.UserContext())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Bureaus fetched", bureaus)
}

// GET /api/initiatives/stats
func (ctl *InitiativeController) Stats(c *fiber.Ctx) error {
	stats, err := ctl.Initiatives.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Initiative statistics", stats)
}

// GET /api/initiatives/:id
func (ctl *InitiativeController) Get(c *fiber.Ctx) error {
	id, err := initiativeID(c)
	if err != nil {
		return err
	}
	m, err := ctl.Initiatives.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Initiative fetched", m)
}

/* ================================
   WRITE
================================ */

// POST /api/initiatives
func (ctl *InitiativeController) Create(c *fiber.Ctx) error {
	var req dto.CreateInitiativeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m, err := ctl.Initiatives.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Initiative created", m)
}

// PUT /api/initiatives/:id
func (ctl *InitiativeController) Update(c *fiber.Ctx) error {
	id, err := initiativeID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateInitiativeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	m, err := ctl.Initiatives.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Initiative updated", m)
}

// DELETE /api/initiatives/:id
func (ctl *InitiativeController) Delete(c *fiber.Ctx) error {
	id, err := initiativeID(c)
	if err != nil {
		return err
	}
	removed, err := ctl.Initiatives.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Initiative deleted", fiber.Map{
		"initiative_id":  id,
		"images_removed": removed,
	})
}
