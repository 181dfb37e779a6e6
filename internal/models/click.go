package models

import (
	"time"
)

type Click struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URLID     uint      `gorm:"not null;index" json:"urlId"`
	ClickedAt time.Time `gorm:"autoCreateTime" json:"clickedAt"`
	IPAddress *string   `gorm:"type:text" json:"ipAddress,omitempty"`
	UserAgent *string   `gorm:"type:text" json:"userAgent,omitempty"`
	Referrer  *string   `gorm:"type:text" json:"referrer,omitempty"`
	Country   *string   `gorm:"type:text" json:"country,omitempty"`
}
