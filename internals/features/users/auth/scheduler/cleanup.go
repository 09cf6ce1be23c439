package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tamilvalam_backend/internals/features/users/auth/service"
	"tamilvalam_backend/internals/helpers/cron"
)

// RegisterBlacklistCleanup purges expired blacklist entries every day.
func RegisterBlacklistCleanup(s *cron.Scheduler, auth *service.AuthService, log *zap.Logger) error {
	_, err := s.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := auth.CleanupBlacklist(ctx)
		if err != nil {
			log.Error("token blacklist cleanup failed", zap.Error(err))
			return
		}
		log.Info("token blacklist cleaned", zap.Int64("removed", n))
	})
	return err
}
