package route

import (
	"github.com/gofiber/fiber/v2"

	"tamilvalam_backend/internals/features/initiatives/controller"
)

// InitiativeRoutes mounts /initiatives under api. Reads are public; every
// write and /stats run behind the admin guards. Literal segments are
// registered before /:id so they are not captured as ids.
func InitiativeRoutes(api fiber.Router, ctl *controller.InitiativeController, admin ...fiber.Handler) {
	g := api.Group("/initiatives")
	guarded := func(h fiber.Handler) []fiber.Handler {
		out := make([]fiber.Handler, 0, len(admin)+1)
		return append(append(out, admin...), h)
	}

	// public
	g.Get("/", ctl.List)
	g.Get("/bureaus", ctl.Bureaus)

	// admin, literal prefixes first
	g.Get("/stats", guarded(ctl.Stats)...)
	g.Delete("/images/:imageId", guarded(ctl.DeleteImage)...)
	g.Patch("/images/:imageId/primary", guarded(ctl.SetPrimaryImage)...)
	g.Post("/", guarded(ctl.Create)...)

	g.Get("/:id", ctl.Get)
	g.Put("/:id", guarded(ctl.Update)...)
	g.Delete("/:id", guarded(ctl.Delete)...)
	g.Post("/:id/images", guarded(ctl.UploadImages)...)
	g.Delete("/:id/images/:imageId", guarded(ctl.DeleteImage)...)
	g.Patch("/:id/images/:imageId/primary", guarded(ctl.SetPrimaryImage)...)
	g.Post("/:id/recompute", guarded(ctl.Recompute)...)
}
