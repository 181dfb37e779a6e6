package service

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teris-io/shortid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shortly/config"
	"shortly/internal/models"
	"shortly/internal/repository"
	"shortly/internal/shortcode"
)

var (
	ErrInvalidURL   = errors.New("invalid url")
	ErrInvalidAlias = errors.New("invalid custom alias format")
	ErrAliasTaken   = errors.New("custom alias already taken")
	ErrNotFound     = errors.New("url not found")
	ErrExpired      = errors.New("url has expired")
	ErrForbidden    = errors.New("not allowed to modify this url")
)

type URLService struct {
	repo *repository.URLRepository
	cfg  *config.Config
	log  *zap.Logger
}

func NewURLService(repo *repository.URLRepository, cfg *config.Config, log *zap.Logger) *URLService {
	return &URLService{
		repo: repo,
		cfg:  cfg,
		log:  log,
	}
}

// Create stores a new short URL. With a custom alias the alias is used
// verbatim; otherwise the record is inserted with a provisional code and the
// final code is derived from the assigned id. Expiry defaults to one year
// and a caller-supplied expiry is capped at the configured maximum: no link
// is unexpiring unless configuration says so.
func (s *URLService) Create(originalURL, customAlias string, expiresIn *int64, userID *uuid.UUID) (*models.URL, error) {
	sanitized, err := sanitizeURL(originalURL)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.cfg.App.DefaultExpiry)
	if expiresIn != nil {
		ttl := time.Duration(*expiresIn) * time.Second
		if max := s.cfg.App.MaxExpiry; max > 0 && ttl > max {
			ttl = max
		}
		expiresAt = time.Now().Add(ttl)
	}

	u := &models.URL{
		OriginalURL: sanitized,
		UserID:      userID,
		ExpiresAt:   &expiresAt,
		Active:      true,
	}

	if customAlias != "" {
		if !shortcode.IsValid(customAlias) {
			return nil, ErrInvalidAlias
		}
		taken, err := s.repo.ExistsByCode(customAlias)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrAliasTaken
		}
		u.ShortCode = customAlias
		u.IsCustomAlias = true

		// The existence check above is a pre-check; concurrent creations
		// racing for the same alias are settled by the unique constraint.
		if err := s.repo.Create(u); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrAliasTaken
			}
			s.log.Error("Failed to create short link", zap.Error(err))
			return nil, err
		}
		return u, nil
	}

	// The final code depends on the id the store assigns, so the row is
	// inserted with a unique placeholder first. shortid output contains
	// characters outside the base62 alphabet, so a placeholder can never
	// collide with a final code.
	placeholder, err := shortid.Generate()
	if err != nil {
		s.log.Error("Failed to generate placeholder code", zap.Error(err))
		return nil, err
	}
	u.ShortCode = placeholder

	if err := s.repo.Create(u); err != nil {
		s.log.Error("Failed to create short link", zap.Error(err))
		return nil, err
	}

	final := shortcode.Derive(u.ID)
	if err := s.repo.UpdateShortCode(u.ID, final); err != nil {
		s.log.Error("Failed to assign final short code", zap.Uint("id", u.ID), zap.Error(err))
		return nil, err
	}
	u.ShortCode = final

	return u, nil
}

// Resolve returns the live record for a short code. An expired record is
// deactivated on the spot (lazy expiry) and reported as ErrExpired; the
// HTTP layer treats that the same as ErrNotFound.
func (s *URLService) Resolve(code string) (*models.URL, error) {
	u, err := s.repo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if u.Expired(time.Now()) {
		if _, err := s.repo.SoftDelete(u.ID); err != nil {
			s.log.Error("Failed to deactivate expired link", zap.String("shortCode", code), zap.Error(err))
		}
		return nil, ErrExpired
	}

	return u, nil
}

func (s *URLService) Details(code string) (*repository.URLStats, error) {
	stats, err := s.repo.GetStats(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stats, nil
}

func (s *URLService) ListForUser(userID uuid.UUID, page, limit int) ([]models.URL, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	urls, err := s.repo.FindByUser(userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	return urls, total, nil
}

// Update modifies mutable fields of an owned record. Anonymous records can
// be updated by any authenticated caller.
func (s *URLService) Update(code string, userID uuid.UUID, active *bool) (*models.URL, error) {
	u, err := s.repo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if u.UserID != nil && *u.UserID != userID {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if active != nil {
		fields["active"] = *active
	}

	return s.repo.Update(u.ID, fields)
}

func (s *URLService) Delete(code string, userID uuid.UUID) error {
	u, err := s.repo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if u.UserID != nil && *u.UserID != userID {
		return ErrForbidden
	}

	if _, err := s.repo.SoftDelete(u.ID); err != nil {
		return err
	}
	return nil
}

// CleanupExpired deactivates every expired record still marked active.
// Correctness does not depend on it: Resolve deactivates lazily.
func (s *URLService) CleanupExpired(now time.Time) (int64, error) {
	return s.repo.DeactivateExpired(now)
}

func sanitizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}
