package presence

import (
	"context"
	"log"
	"time"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

// PresenceService tracks participant availability and connectivity.
// A user's updates are serialized by arrival order, last writer wins.
type PresenceService interface {
	SetAvailability(ctx context.Context, actingUserID string, role common.Role, value common.Availability) (*dbmysql.PresenceRecord, error)
	GetAvailability(ctx context.Context, userID string) (*dbmysql.PresenceRecord, error)
	OnConnect(userID string)
	OnDisconnect(userID string)
}

type presenceService struct {
	repo PresenceRepository
}

func NewPresenceService(repo PresenceRepository) PresenceService {
	return &presenceService{repo: repo}
}

// SetAvailability is doctor-only. Availability never touches the
// gateway-derived Connected flag.
func (s *presenceService) SetAvailability(ctx context.Context, actingUserID string, role common.Role, value common.Availability) (*dbmysql.PresenceRecord, error) {
	if actingUserID == "" {
		return nil, common.InvalidArgumentf("acting user id is required")
	}
	if role != common.RoleDoctor {
		return nil, common.Forbiddenf("only doctors can set availability")
	}
	if !value.Valid() {
		return nil, common.InvalidArgumentf("invalid availability %q", value)
	}

	rec, err := s.repo.Find(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &dbmysql.PresenceRecord{
			UserID:       actingUserID,
			Availability: value,
			LastSeenAt:   time.Now().UTC(),
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	if err := s.repo.UpdateAvailability(ctx, actingUserID, value); err != nil {
		return nil, err
	}
	rec.Availability = value
	return rec, nil
}

// GetAvailability lazily creates an offline record on first read, so a
// user that never set a status still resolves instead of failing.
func (s *presenceService) GetAvailability(ctx context.Context, userID string) (*dbmysql.PresenceRecord, error) {
	if userID == "" {
		return nil, common.InvalidArgumentf("user id is required")
	}

	rec, err := s.repo.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}

	rec = &dbmysql.PresenceRecord{
		UserID:       userID,
		Availability: common.AvailabilityOffline,
		LastSeenAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// OnConnect is invoked by the gateway when a user's first live channel
// opens. Does not alter availability.
func (s *presenceService) OnConnect(userID string) {
	s.setConnected(userID, true)
}

// OnDisconnect is invoked by the gateway when a user's last live channel
// closes.
func (s *presenceService) OnDisconnect(userID string) {
	s.setConnected(userID, false)
}

func (s *presenceService) setConnected(userID string, connected bool) {
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := s.repo.Find(ctx, userID)
	if err != nil {
		log.Printf("presence: failed to load record for %s: %v", userID, err)
		return
	}
	if rec == nil {
		rec = &dbmysql.PresenceRecord{
			UserID:       userID,
			Availability: common.AvailabilityOffline,
			Connected:    connected,
			LastSeenAt:   now,
		}
		if err := s.repo.Create(ctx, rec); err != nil {
			log.Printf("presence: failed to create record for %s: %v", userID, err)
		}
		return
	}

	if err := s.repo.UpdateConnected(ctx, userID, connected, now); err != nil {
		log.Printf("presence: failed to update connectivity for %s: %v", userID, err)
	}
}
