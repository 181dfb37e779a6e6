package models

import (
	"time"

	"github.com/google/uuid"
)

type URL struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ShortCode     string     `gorm:"type:text;unique;not null" json:"shortCode"`
	OriginalURL   string     `gorm:"type:text;not null" json:"originalUrl"`
	IsCustomAlias bool       `gorm:"not null;default:false" json:"isCustomAlias"`
	UserID        *uuid.UUID `gorm:"type:uuid" json:"-"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Active        bool       `gorm:"not null;default:true" json:"isActive"`

	Clicks []Click `gorm:"foreignKey:URLID" json:"-"`
}

// Expired reports whether the record has an expiry in the past.
func (m *URL) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}
