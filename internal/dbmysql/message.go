package dbmysql

import (
	"time"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
)

// Attachment is the metadata contract for a file attached to a message.
// The URL is opaque; storage mechanics live in the external file service.
type Attachment struct {
	Filename  string                `json:"filename"`
	MimeType  string                `json:"mimeType"`
	SizeBytes int64                 `json:"sizeBytes"`
	URL       string                `json:"url"`
	Kind      common.AttachmentKind `json:"kind"`
}

// Message is one entry in a conversation log. Either Body or Attachment is
// present. Read flips false to true exactly once; rows are never deleted.
type Message struct {
	ID         string      `gorm:"primaryKey;size:36" json:"id"`
	SenderID   string      `gorm:"not null;index;size:36" json:"senderId"`
	ReceiverID string      `gorm:"not null;index;size:36" json:"receiverId"`
	PairKey    string      `gorm:"not null;index;size:73" json:"-"`
	Body       *string     `gorm:"type:text" json:"body"`
	Attachment *Attachment `gorm:"type:json;serializer:json" json:"attachment,omitempty"`
	Read       bool        `gorm:"default:false" json:"read"`
	// Seq breaks CreatedAt ties in insertion order.
	Seq       uint64    `gorm:"autoIncrement;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationSummary is the derived per-peer view returned by
// listConversations. Not a stored entity.
type ConversationSummary struct {
	PeerID      string   `json:"peerId"`
	LastMessage *Message `json:"lastMessage"`
	UnreadCount int64    `json:"unreadCount"`
}
