package dbmysql

import (
	"time"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
)

// Notification is one durable entry in a user's notification log.
type Notification struct {
	ID        string                  `gorm:"primaryKey;size:36" json:"id"`
	UserID    string                  `gorm:"not null;index;size:36" json:"userId"`
	Type      common.NotificationType `gorm:"not null;size:50" json:"type"`
	Message   string                  `gorm:"not null;type:text" json:"message"`
	RelatedID *string                 `gorm:"size:36" json:"relatedId,omitempty"`
	Read      bool                    `gorm:"default:false" json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}
