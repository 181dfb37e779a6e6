package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shortly/internal/models"
	"shortly/internal/repository"
)

type ClickService struct {
	repo *repository.ClickRepository
	urls *repository.URLRepository
	log  *zap.Logger
}

func NewClickService(repo *repository.ClickRepository, urls *repository.URLRepository, log *zap.Logger) *ClickService {
	return &ClickService{
		repo: repo,
		urls: urls,
		log:  log,
	}
}

const topListLimit = 10

// Record appends a visit event. It is best-effort: a failed analytics write
// is logged and discarded so the redirect that triggered it never notices.
func (s *ClickService) Record(urlID uint, ip, userAgent, referrer string) {
	click := &models.Click{
		URLID:     urlID,
		IPAddress: optional(ip),
		UserAgent: optional(userAgent),
		Referrer:  optional(referrer),
		Country:   countryFromIP(ip),
	}

	if err := s.repo.Create(click); err != nil {
		s.log.Warn("Failed to record click", zap.Uint("urlID", urlID), zap.Error(err))
	}
}

// countryFromIP is a stub. GeoIP resolution is out of scope; the column
// stays empty until a lookup is wired in.
func countryFromIP(ip string) *string {
	return nil
}

type Stats struct {
	TotalClicks  int64
	ClicksByDay  []repository.DayCount
	TopReferrers []repository.ReferrerCount
	TopCountries []repository.CountryCount
}

// Stats aggregates clicks for a short code over the trailing window.
// A URL with no clicks yields zero totals and empty lists.
func (s *ClickService) Stats(code string, days int) (*Stats, error) {
	u, err := s.urls.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if days < 1 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	total, err := s.repo.CountByURL(u.ID)
	if err != nil {
		return nil, err
	}

	byDay, err := s.repo.DailyCounts(u.ID, since)
	if err != nil {
		return nil, err
	}
	for i := range byDay {
		// Drivers disagree on how DATE() scans: trim timestamps down to
		// the calendar day.
		if len(byDay[i].Date) > 10 {
			byDay[i].Date = byDay[i].Date[:10]
		}
	}

	referrers, err := s.repo.TopReferrers(u.ID, topListLimit)
	if err != nil {
		return nil, err
	}

	countries, err := s.repo.TopCountries(u.ID, topListLimit)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalClicks:  total,
		ClicksByDay:  byDay,
		TopReferrers: referrers,
		TopCountries: countries,
	}, nil
}

func (s *ClickService) History(code string, limit, offset int) ([]models.Click, int64, error) {
	u, err := s.urls.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	if limit < 1 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	clicks, err := s.repo.FindByURL(u.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByURL(u.ID)
	if err != nil {
		return nil, 0, err
	}
	return clicks, total, nil
}

func (s *ClickService) Recent(limit int) ([]repository.RecentClick, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.repo.Recent(limit)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
