package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

// ChatService is the durable conversation log: messages, attachments,
// read state and unread counts.
type ChatService interface {
	Send(ctx context.Context, senderID, receiverID string, body *string, attachment *dbmysql.Attachment) (*dbmysql.Message, error)
	ListConversation(ctx context.Context, userA, userB string) ([]*dbmysql.Message, error)
	ListConversations(ctx context.Context, userID string) ([]*dbmysql.ConversationSummary, error)
	MarkRead(ctx context.Context, userID, peerID string) error
}

type chatService struct {
	repo      ChatRepository
	publisher common.Publisher
}

func NewChatService(repo ChatRepository, publisher common.Publisher) ChatService {
	return &chatService{repo: repo, publisher: publisher}
}

// Send persists the message with a server-assigned timestamp and pushes a
// message event to the receiver's live channels. Delivery is best-effort;
// the stored row is the durable copy an offline receiver polls for.
func (s *chatService) Send(ctx context.Context, senderID, receiverID string, body *string, attachment *dbmysql.Attachment) (*dbmysql.Message, error) {
	if senderID == "" || receiverID == "" {
		return nil, common.InvalidArgumentf("sender and receiver ids are required")
	}
	if senderID == receiverID {
		return nil, common.InvalidArgumentf("cannot message yourself")
	}
	if body != nil && strings.TrimSpace(*body) == "" {
		body = nil
	}
	if body == nil && attachment == nil {
		return nil, common.InvalidArgumentf("message needs a body or an attachment")
	}
	if attachment != nil {
		if attachment.URL == "" {
			return nil, common.InvalidArgumentf("attachment url is required")
		}
		if !attachment.Kind.Valid() {
			return nil, common.InvalidArgumentf("invalid attachment kind %q", attachment.Kind)
		}
	}

	msg := &dbmysql.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		PairKey:    common.PairKey(senderID, receiverID),
		Body:       body,
		Attachment: attachment,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}

	s.publisher.Push(receiverID, common.EventMessage, msg)

	return msg, nil
}

// ListConversation returns the full log between two users, oldest first.
func (s *chatService) ListConversation(ctx context.Context, userA, userB string) ([]*dbmysql.Message, error) {
	if userA == "" || userB == "" {
		return nil, common.InvalidArgumentf("both participant ids are required")
	}
	return s.repo.ListByPair(ctx, common.PairKey(userA, userB))
}

// ListConversations folds the user's message log into one summary per
// distinct peer, ordered by the latest message, newest conversation first.
func (s *chatService) ListConversations(ctx context.Context, userID string) ([]*dbmysql.ConversationSummary, error) {
	if userID == "" {
		return nil, common.InvalidArgumentf("user id is required")
	}

	messages, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Messages arrive newest first, so the first message seen for a peer
	// is that conversation's last message and the fold preserves order.
	summaries := make([]*dbmysql.ConversationSummary, 0)
	seen := make(map[string]bool)
	for _, msg := range messages {
		peerID := msg.SenderID
		if peerID == userID {
			peerID = msg.ReceiverID
		}
		if seen[peerID] {
			continue
		}
		seen[peerID] = true
		summaries = append(summaries, &dbmysql.ConversationSummary{
			PeerID:      peerID,
			LastMessage: msg,
			UnreadCount: unread[peerID],
		})
	}
	return summaries, nil
}

// MarkRead flips every unread message the user received from the peer.
// Idempotent; never touches messages the user sent.
func (s *chatService) MarkRead(ctx context.Context, userID, peerID string) error {
	if userID == "" || peerID == "" {
		return common.InvalidArgumentf("user and peer ids are required")
	}
	return s.repo.MarkRead(ctx, userID, peerID)
}
