package chat

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

type ChatRepository interface {
	Save(ctx context.Context, msg *dbmysql.Message) error
	ListByPair(ctx context.Context, pairKey string) ([]*dbmysql.Message, error)
	ListForUser(ctx context.Context, userID string) ([]*dbmysql.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID string) error
	UnreadCounts(ctx context.Context, receiverID string) (map[string]int64, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// ListByPair returns the full conversation in server order, oldest first.
// Seq breaks same-instant ties in insertion order.
func (r *chatRepo) ListByPair(ctx context.Context, pairKey string) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("pair_key = ?", pairKey).
		Order("created_at ASC, seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return messages, nil
}

// ListForUser returns every message the user sent or received, newest first.
func (r *chatRepo) ListForUser(ctx context.Context, userID string) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, seq DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips every unread message from senderID to receiverID in one
// bulk update. A no-op when everything is already read.
func (r *chatRepo) MarkRead(ctx context.Context, receiverID, senderID string) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND `read` = ?", receiverID, senderID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// UnreadCounts returns the number of unread messages per sender for the
// given receiver.
func (r *chatRepo) UnreadCounts(ctx context.Context, receiverID string) (map[string]int64, error) {
	var rows []struct {
		SenderID string
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Select("sender_id, COUNT(*) as count").
		Where("receiver_id = ? AND `read` = ?", receiverID, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Count
	}
	return counts, nil
}
