package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shortly/config"
	"shortly/internal/repository"
	"shortly/internal/service"
)

// Scheduler runs the periodic expiry sweep. Resolution already deactivates
// expired links lazily; the sweep catches records nobody visits and purges
// long-expired anonymous ones.
type Scheduler struct {
	c    *cron.Cron
	log  *zap.Logger
	urls *service.URLService
	repo *repository.URLRepository
	cfg  *config.AppConfig
}

func NewScheduler(log *zap.Logger, urls *service.URLService, repo *repository.URLRepository, cfg *config.AppConfig) *Scheduler {
	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	return &Scheduler{
		c: c, log: log,
		urls: urls,
		repo: repo,
		cfg:  cfg,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.c.AddFunc("0 3 * * *", func() {
		s.sweep()
	})
	if err != nil {
		return err
	}
	s.c.Start()
	s.log.Info("Maintenance scheduler started")

	// Catch up on anything that expired while the service was down.
	go s.sweep()

	go func() {
		<-ctx.Done()
		ctxStop := s.c.Stop()
		<-ctxStop.Done()
	}()
	return nil
}

func (s *Scheduler) sweep() {
	now := time.Now()

	count, err := s.urls.CleanupExpired(now)
	if err != nil {
		s.log.Error("Failed to deactivate expired links", zap.Error(err))
	} else if count > 0 {
		s.log.Info("Deactivated expired links", zap.Int64("count", count))
	}

	cutoff := now.Add(-s.cfg.PurgeAfter)
	purgeable, err := s.repo.FindPurgeable(cutoff)
	if err != nil {
		s.log.Error("Failed to list purgeable links", zap.Error(err))
		return
	}
	for _, link := range purgeable {
		if _, err := s.repo.HardDelete(link.ID); err != nil {
			s.log.Error("Failed to purge link", zap.String("shortCode", link.ShortCode), zap.Error(err))
			continue
		}
		s.log.Info("Purged expired anonymous link", zap.String("shortCode", link.ShortCode))
	}
}
