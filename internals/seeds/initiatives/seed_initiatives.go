package initiatives

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tamilvalam_backend/internals/features/initiatives/dto"
	"tamilvalam_backend/internals/features/initiatives/service"
)

// SeedInitiativesFromJSON creates every initiative in the file whose English
// title is not taken yet. Returns how many were created.
func SeedInitiativesFromJSON(ctx context.Context, svc *service.InitiativeService, filePath string, log *zap.Logger) (int, error) {
	log.Info("reading initiative seed file", zap.String("path", filePath))

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var inputs []dto.CreateInitiativeRequest
	if err := json.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	created := 0
	for _, data := range inputs {
		exists, err := svc.ExistsByTitle(ctx, data.InitiativeTitleEN)
		if err != nil {
			return created, err
		}
		if exists {
			log.Debug("initiative already present, skipped", zap.String("title", data.InitiativeTitleEN))
			continue
		}
		if _, err := svc.Create(ctx, data); err != nil {
			log.Warn("seed initiative failed", zap.String("title", data.InitiativeTitleEN), zap.Error(err))
			continue
		}
		created++
	}
	return created, nil
}
