package seeds

import (
	"context"

	"go.uber.org/zap"

	"tamilvalam_backend/internals/app"
	"tamilvalam_backend/internals/seeds/initiatives"
)

// Run seeds the configured admin and, when a seed file is set, the
// initiatives it lists. Both steps skip rows that already exist.
func Run(ctx context.Context, a *app.App) error {
	created, err := a.Auth.SeedAdmin(ctx, a.Config.Admin)
	if err != nil {
		return err
	}
	if created {
		a.Log.Info("seeded admin user", zap.String("email", a.Config.Admin.Email))
	}

	if a.Config.SeedFile == "" {
		return nil
	}
	n, err := initiatives.SeedInitiativesFromJSON(ctx, a.Initiatives, a.Config.SeedFile, a.Log)
	if err != nil {
		return err
	}
	a.Log.Info("seeded initiatives", zap.Int("created", n))
	return nil
}
