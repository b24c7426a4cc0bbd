package dbmysql

import (
	"time"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
)

// Call is one signaling session between exactly two participants.
// At most one row with an active status may exist per pair key.
type Call struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	CallerID        string            `gorm:"not null;index;size:36" json:"callerId"`
	ReceiverID      string            `gorm:"not null;index;size:36" json:"receiverId"`
	PairKey         string            `gorm:"not null;index;size:73" json:"-"`
	Status          common.CallStatus `gorm:"not null;size:20;index" json:"status"`
	StartedAt       time.Time         `json:"startedAt"`
	EndedAt         *time.Time        `json:"endedAt,omitempty"`
	DurationSeconds *int              `json:"durationSeconds,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"-"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"-"`
}

// Participant reports whether userID is one of the two parties.
func (c *Call) Participant(userID string) bool {
	return userID == c.CallerID || userID == c.ReceiverID
}

// Peer returns the other participant's id.
func (c *Call) Peer(userID string) string {
	if userID == c.CallerID {
		return c.ReceiverID
	}
	return c.CallerID
}
