package notif

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

// NotificationService is the fan-out hub: it persists every raised
// notification and pushes it to the recipient's live channels when they
// are connected. Offline recipients pick the record up by poll.
type NotificationService interface {
	Raise(ctx context.Context, userID string, notifType common.NotificationType, message string, relatedID *string) (*dbmysql.Notification, error)
	RaiseAsync(event common.NotificationEvent)
	List(ctx context.Context, userID string) ([]*dbmysql.Notification, error)
	MarkRead(ctx context.Context, notificationID, actingUserID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MissedCall(callerID, receiverID, callID string)
	Shutdown()
}

type notificationService struct {
	repo      NotificationRepository
	publisher common.Publisher

	// async intake for external domain-event producers
	events chan common.NotificationEvent
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewNotificationService(repo NotificationRepository, publisher common.Publisher, workers, bufferSize int) NotificationService {
	ctx, cancel := context.WithCancel(context.Background())

	s := &notificationService{
		repo:      repo,
		publisher: publisher,
		events:    make(chan common.NotificationEvent, bufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.processEvents()
	}

	return s
}

// Raise persists the notification, then pushes it if the recipient is
// connected. Push failure is not an error; the stored row is the durable
// copy.
func (s *notificationService) Raise(ctx context.Context, userID string, notifType common.NotificationType, message string, relatedID *string) (*dbmysql.Notification, error) {
	if userID == "" {
		return nil, common.InvalidArgumentf("user id is required")
	}
	if !notifType.Valid() {
		return nil, common.InvalidArgumentf("unknown notification type %q", notifType)
	}
	if message == "" {
		return nil, common.InvalidArgumentf("notification message is required")
	}

	notification := &dbmysql.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      notifType,
		Message:   message,
		RelatedID: relatedID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.publisher.Connected(userID) {
		s.publisher.Push(userID, common.EventNotification, notification)
	}

	log.Printf("notification raised: type=%s user=%s", notifType, userID)
	return notification, nil
}

// RaiseAsync enqueues a domain event for the worker pool. Events are
// dropped when the intake buffer is full; producers must not block.
func (s *notificationService) RaiseAsync(event common.NotificationEvent) {
	select {
	case s.events <- event:
	case <-s.ctx.Done():
	default:
		log.Printf("notification intake full, dropping event: %s for %s", event.Type, event.UserID)
	}
}

func (s *notificationService) processEvents() {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.events:
			if _, err := s.Raise(s.ctx, event.UserID, event.Type, event.Message, event.RelatedID); err != nil {
				log.Printf("failed to raise %s notification for %s: %v", event.Type, event.UserID, err)
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]*dbmysql.Notification, error) {
	if userID == "" {
		return nil, common.InvalidArgumentf("user id is required")
	}
	return s.repo.ByUserID(ctx, userID, 0, 0)
}

// MarkRead flips a single notification; only its recipient may do so.
// Idempotent.
func (s *notificationService) MarkRead(ctx context.Context, notificationID, actingUserID string) error {
	if notificationID == "" || actingUserID == "" {
		return common.InvalidArgumentf("notification id and acting user id are required")
	}

	notification, err := s.repo.ByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != actingUserID {
		return common.Forbiddenf("notification %s does not belong to user %s", notificationID, actingUserID)
	}
	if notification.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return common.InvalidArgumentf("user id is required")
	}
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, common.InvalidArgumentf("user id is required")
	}
	return s.repo.UnreadCount(ctx, userID)
}

// MissedCall raises the durable missed-call notification to the caller
// when a ringing call times out.
func (s *notificationService) MissedCall(callerID, receiverID, callID string) {
	id := callID
	s.RaiseAsync(common.NotificationEvent{
		UserID:    callerID,
		Type:      common.MissedCallType,
		Message:   fmt.Sprintf("%s did not answer your call", receiverID),
		RelatedID: &id,
	})
}

// Shutdown stops the worker pool after draining in-flight events.
func (s *notificationService) Shutdown() {
	s.cancel()
	s.wg.Wait()
	log.Println("notification service shutdown complete")
}
