package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shortly/internal/models"
)

type URLRepository struct {
	db *gorm.DB
}

func NewURLRepository(db *gorm.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

func (r *URLRepository) Create(url *models.URL) error {
	return r.db.Create(url).Error
}

// FindByCode returns only active records. Expiry is checked by the caller
// so that lazy deactivation can run; use FindByID to read inactive rows.
func (r *URLRepository) FindByCode(shortCode string) (*models.URL, error) {
	var url models.URL
	if err := r.db.Where("short_code = ? AND active = ?", shortCode, true).First(&url).Error; err != nil {
		return nil, err
	}
	return &url, nil
}

func (r *URLRepository) FindByID(id uint) (*models.URL, error) {
	var url models.URL
	if err := r.db.First(&url, id).Error; err != nil {
		return nil, err
	}
	return &url, nil
}

func (r *URLRepository) ExistsByCode(shortCode string) (bool, error) {
	var count int64
	err := r.db.Model(&models.URL{}).Where("short_code = ?", shortCode).Count(&count).Error
	return count > 0, err
}

// Update applies a partial update: only the supplied fields are touched.
func (r *URLRepository) Update(id uint, fields map[string]interface{}) (*models.URL, error) {
	if len(fields) > 0 {
		if err := r.db.Model(&models.URL{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(id)
}

func (r *URLRepository) UpdateShortCode(id uint, shortCode string) error {
	return r.db.Model(&models.URL{}).Where("id = ?", id).Update("short_code", shortCode).Error
}

func (r *URLRepository) SoftDelete(id uint) (bool, error) {
	res := r.db.Model(&models.URL{}).Where("id = ?", id).Update("active", false)
	return res.RowsAffected > 0, res.Error
}

// HardDelete removes the row together with its click history.
func (r *URLRepository) HardDelete(id uint) (bool, error) {
	if err := r.db.Where("url_id = ?", id).Delete(&models.Click{}).Error; err != nil {
		return false, err
	}
	res := r.db.Delete(&models.URL{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *URLRepository) FindByUser(userID uuid.UUID, limit, offset int) ([]models.URL, error) {
	var urls []models.URL
	err := r.db.Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&urls).Error
	return urls, err
}

func (r *URLRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.URL{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *URLRepository) FindExpired(now time.Time) ([]models.URL, error) {
	var urls []models.URL
	err := r.db.Where("expires_at IS NOT NULL AND expires_at < ? AND active = ?", now, true).
		Find(&urls).Error
	return urls, err
}

func (r *URLRepository) DeactivateExpired(now time.Time) (int64, error) {
	res := r.db.Model(&models.URL{}).
		Where("expires_at IS NOT NULL AND expires_at < ? AND active = ?", now, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}

// FindPurgeable returns anonymous records whose expiry is older than the
// cutoff, regardless of active state. The maintenance sweep removes them
// together with their clicks.
func (r *URLRepository) FindPurgeable(cutoff time.Time) ([]models.URL, error) {
	var urls []models.URL
	err := r.db.Where("user_id IS NULL AND expires_at IS NOT NULL AND expires_at < ?", cutoff).
		Find(&urls).Error
	return urls, err
}

type URLStats struct {
	models.URL
	TotalClicks int64
	LastClicked *time.Time
}

// GetStats loads a record with its aggregate click count. Inactive records
// are included so the details endpoint can show deactivated links. The last
// click is fetched as a row rather than MAX(clicked_at): drivers disagree on
// the scan type of a time aggregate.
func (r *URLRepository) GetStats(shortCode string) (*URLStats, error) {
	var url models.URL
	if err := r.db.Where("short_code = ?", shortCode).First(&url).Error; err != nil {
		return nil, err
	}

	stats := URLStats{URL: url}
	if err := r.db.Model(&models.Click{}).Where("url_id = ?", url.ID).Count(&stats.TotalClicks).Error; err != nil {
		return nil, err
	}

	var last models.Click
	err := r.db.Where("url_id = ?", url.ID).Order("clicked_at DESC").First(&last).Error
	if err == nil {
		stats.LastClicked = &last.ClickedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &stats, nil
}
