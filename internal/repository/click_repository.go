package repository

import (
	"time"

	"gorm.io/gorm"

	"shortly/internal/models"
)

type ClickRepository struct {
	db *gorm.DB
}

func NewClickRepository(db *gorm.DB) *ClickRepository {
	return &ClickRepository{
		db: db,
	}
}

func (r *ClickRepository) Create(click *models.Click) error {
	return r.db.Create(click).Error
}

func (r *ClickRepository) CountByURL(urlID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Click{}).
		Where("url_id = ?", urlID).
		Count(&count).Error
	return count, err
}

func (r *ClickRepository) FindByURL(urlID uint, limit, offset int) ([]models.Click, error) {
	var clicks []models.Click
	err := r.db.Where("url_id = ?", urlID).
		Order("clicked_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&clicks).Error
	return clicks, err
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// DailyCounts groups clicks inside the window by calendar day, newest first.
// The cutoff is computed in Go so the query stays portable across drivers.
func (r *ClickRepository) DailyCounts(urlID uint, since time.Time) ([]DayCount, error) {
	rows, err := r.db.Model(&models.Click{}).
		Select("DATE(clicked_at) as date, COUNT(*) as cnt").
		Where("url_id = ? AND clicked_at >= ?", urlID, since).
		Group("DATE(clicked_at)").
		Order("date DESC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []DayCount{}
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

func (r *ClickRepository) TopReferrers(urlID uint, limit int) ([]ReferrerCount, error) {
	rows, err := r.db.Model(&models.Click{}).
		Select("COALESCE(referrer, 'Direct') as referrer, COUNT(*) as cnt").
		Where("url_id = ?", urlID).
		Group("referrer").
		Order("cnt DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []ReferrerCount{}
	for rows.Next() {
		var rc ReferrerCount
		if err := rows.Scan(&rc.Referrer, &rc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, rc)
	}
	return counts, rows.Err()
}

func (r *ClickRepository) TopCountries(urlID uint, limit int) ([]CountryCount, error) {
	rows, err := r.db.Model(&models.Click{}).
		Select("COALESCE(country, 'Unknown') as country, COUNT(*) as cnt").
		Where("url_id = ?", urlID).
		Group("country").
		Order("cnt DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []CountryCount{}
	for rows.Next() {
		var cc CountryCount
		if err := rows.Scan(&cc.Country, &cc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

type RecentClick struct {
	ID          uint      `json:"id"`
	URLID       uint      `json:"urlId"`
	ClickedAt   time.Time `json:"clickedAt"`
	IPAddress   *string   `json:"ipAddress,omitempty"`
	UserAgent   *string   `json:"userAgent,omitempty"`
	Referrer    *string   `json:"referrer,omitempty"`
	Country     *string   `json:"country,omitempty"`
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
}

func (r *ClickRepository) Recent(limit int) ([]RecentClick, error) {
	var clicks []RecentClick
	err := r.db.Model(&models.Click{}).
		Select("clicks.*, urls.short_code, urls.original_url").
		Joins("JOIN urls ON urls.id = clicks.url_id").
		Order("clicks.clicked_at DESC").
		Limit(limit).
		Scan(&clicks).Error
	return clicks, err
}

func (r *ClickRepository) DeleteByURL(urlID uint) (int64, error) {
	res := r.db.Where("url_id = ?", urlID).Delete(&models.Click{})
	return res.RowsAffected, res.Error
}
