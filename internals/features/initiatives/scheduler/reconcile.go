package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tamilvalam_backend/internals/features/initiatives/service"
	"tamilvalam_backend/internals/helpers/cron"
)

// RegisterReconcile recomputes every initiative's image counters on schedule.
func RegisterReconcile(s *cron.Scheduler, images *service.ImageService, schedule string, log *zap.Logger) error {
	_, err := s.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		start := time.Now()
		repaired, err := images.RecomputeAll(ctx)
		if err != nil {
			log.Error("counter reconciliation finished with errors", zap.Int("repaired", repaired), zap.Error(err))
			return
		}
		log.Info("counter reconciliation done", zap.Int("repaired", repaired), zap.Duration("took", time.Since(start)))
	})
	return err
}
