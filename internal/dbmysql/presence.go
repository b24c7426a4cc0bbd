package dbmysql

import (
	"time"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
)

// PresenceRecord tracks one user's availability and connectivity.
// One row per user; updated, never deleted.
type PresenceRecord struct {
	UserID       string              `gorm:"primaryKey;size:36" json:"userId"`
	Availability common.Availability `gorm:"size:20;default:'offline'" json:"availability"`
	Connected    bool                `gorm:"default:false" json:"connected"`
	LastSeenAt   time.Time           `json:"lastSeenAt"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"-"`
}
