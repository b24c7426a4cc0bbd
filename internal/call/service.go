package call

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

// Notifier raises the durable missed-call notification when a ringing
// call times out. Implemented by the notification service.
type Notifier interface {
	MissedCall(callerID, receiverID, callID string)
}

// CallService coordinates a call between exactly two participants.
//
// State machine:
//
//	(none)   initiate  -> ringing
//	ringing  accept    -> accepted
//	ringing  reject    -> rejected  [terminal]
//	ringing  timeout   -> missed    [terminal]
//	ringing|accepted end -> ended   [terminal]
//
// At most one ringing or accepted call exists per unordered participant
// pair; admission and every transition for a pair run under its pair lock.
type CallService interface {
	Initiate(ctx context.Context, callerID, receiverID string) (*dbmysql.Call, error)
	CheckIncoming(ctx context.Context, userID string) (*dbmysql.Call, error)
	Accept(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error)
	Reject(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error)
	End(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error)
	Get(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error)
	Shutdown()
}

type callService struct {
	repo        CallRepository
	publisher   common.Publisher
	notifier    Notifier
	ringTimeout time.Duration

	locks *pairLocks

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func NewCallService(repo CallRepository, publisher common.Publisher, notifier Notifier, ringTimeout time.Duration) CallService {
	return &callService{
		repo:        repo,
		publisher:   publisher,
		notifier:    notifier,
		ringTimeout: ringTimeout,
		locks:       newPairLocks(),
		timers:      make(map[string]*time.Timer),
	}
}

// Initiate admits a new call for the pair. The admission check and the
// insert run under the pair lock, so two simultaneous initiations resolve
// to exactly one ringing call and one Conflict.
func (s *callService) Initiate(ctx context.Context, callerID, receiverID string) (*dbmysql.Call, error) {
	if callerID == "" || receiverID == "" {
		return nil, common.InvalidArgumentf("caller and receiver ids are required")
	}
	if callerID == receiverID {
		return nil, common.InvalidArgumentf("cannot call yourself")
	}

	pairKey := common.PairKey(callerID, receiverID)
	s.locks.lock(pairKey)
	defer s.locks.unlock(pairKey)

	active, err := s.repo.FindActiveByPair(ctx, pairKey)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, common.Conflictf("active call already exists between %s and %s", callerID, receiverID)
	}

	call := &dbmysql.Call{
		ID:         uuid.NewString(),
		CallerID:   callerID,
		ReceiverID: receiverID,
		PairKey:    pairKey,
		Status:     common.CallRinging,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, call); err != nil {
		return nil, err
	}

	s.scheduleTimeout(call)
	log.Printf("call %s: %s ringing %s", call.ID, callerID, receiverID)

	s.publisher.Push(receiverID, common.EventCallInvite, call)

	return call, nil
}

// CheckIncoming is the poll fallback for a receiver without a live channel.
// Returns (nil, nil) when nothing is ringing for the user.
func (s *callService) CheckIncoming(ctx context.Context, userID string) (*dbmysql.Call, error) {
	if userID == "" {
		return nil, common.InvalidArgumentf("user id is required")
	}
	return s.repo.FindRingingForReceiver(ctx, userID)
}

func (s *callService) Accept(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	return s.transition(ctx, callID, actingUserID, func(call *dbmysql.Call) error {
		if actingUserID != call.ReceiverID {
			return common.InvalidStatef("only the receiver can accept")
		}
		if call.Status != common.CallRinging {
			return common.InvalidStatef("cannot accept a %s call", call.Status)
		}
		call.Status = common.CallAccepted
		return nil
	}, func(call *dbmysql.Call) {
		log.Printf("call %s: accepted by %s", call.ID, actingUserID)
		s.publisher.Push(call.CallerID, common.EventCallAccepted, call)
	})
}

func (s *callService) Reject(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	return s.transition(ctx, callID, actingUserID, func(call *dbmysql.Call) error {
		if actingUserID != call.ReceiverID {
			return common.InvalidStatef("only the receiver can reject")
		}
		if call.Status != common.CallRinging {
			return common.InvalidStatef("cannot reject a %s call", call.Status)
		}
		call.Status = common.CallRejected
		now := time.Now().UTC()
		call.EndedAt = &now
		return nil
	}, func(call *dbmysql.Call) {
		log.Printf("call %s: rejected by %s", call.ID, actingUserID)
		s.publisher.Push(call.CallerID, common.EventCallRejected, call)
	})
}

// End is legal from ringing or accepted, by either participant.
// Duration counts from StartedAt; a call ended while still ringing has
// duration zero.
func (s *callService) End(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	return s.transition(ctx, callID, actingUserID, func(call *dbmysql.Call) error {
		if !call.Status.Active() {
			return common.InvalidStatef("cannot end a %s call", call.Status)
		}
		now := time.Now().UTC()
		duration := 0
		if call.Status == common.CallAccepted {
			duration = int(now.Sub(call.StartedAt).Seconds())
		}
		call.Status = common.CallEnded
		call.EndedAt = &now
		call.DurationSeconds = &duration
		return nil
	}, func(call *dbmysql.Call) {
		log.Printf("call %s: ended by %s", call.ID, actingUserID)
		s.publisher.Push(call.Peer(actingUserID), common.EventCallEnded, call)
	})
}

func (s *callService) Get(ctx context.Context, callID, actingUserID string) (*dbmysql.Call, error) {
	call, err := s.repo.ByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !call.Participant(actingUserID) {
		return nil, common.Forbiddenf("user %s is not a participant of call %s", actingUserID, callID)
	}
	return call, nil
}

// Shutdown stops every pending ring timer.
func (s *callService) Shutdown() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// transition applies a state change under the call's pair lock. The call
// is re-read inside the lock so concurrent transitions (including the
// ring timer) are totally ordered per call.
func (s *callService) transition(ctx context.Context, callID, actingUserID string, apply func(*dbmysql.Call) error, after func(*dbmysql.Call)) (*dbmysql.Call, error) {
	if callID == "" || actingUserID == "" {
		return nil, common.InvalidArgumentf("call id and acting user id are required")
	}

	// First read is only to learn the pair key; state is checked again
	// under the lock.
	call, err := s.repo.ByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !call.Participant(actingUserID) {
		return nil, common.Forbiddenf("user %s is not a participant of call %s", actingUserID, callID)
	}

	s.locks.lock(call.PairKey)
	defer s.locks.unlock(call.PairKey)

	call, err = s.repo.ByID(ctx, callID)
	if err != nil {
		return nil, err
	}

	wasRinging := call.Status == common.CallRinging
	if err := apply(call); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, call); err != nil {
		return nil, err
	}

	if wasRinging {
		s.cancelTimeout(call.ID)
	}
	after(call)

	return call, nil
}

func (s *callService) scheduleTimeout(call *dbmysql.Call) {
	id := call.ID
	pairKey := call.PairKey

	timer := time.AfterFunc(s.ringTimeout, func() {
		s.handleTimeout(id, pairKey)
	})

	s.timersMu.Lock()
	s.timers[id] = timer
	s.timersMu.Unlock()
}

func (s *callService) cancelTimeout(callID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[callID]; ok {
		timer.Stop()
		delete(s.timers, callID)
	}
}

// handleTimeout flips an unanswered call to missed. It takes the same
// pair lock as the human-initiated transitions and re-checks the status,
// so a timer firing concurrently with accept or reject loses the race
// and becomes a no-op.
func (s *callService) handleTimeout(callID, pairKey string) {
	ctx := context.Background()

	s.locks.lock(pairKey)
	defer s.locks.unlock(pairKey)

	s.timersMu.Lock()
	delete(s.timers, callID)
	s.timersMu.Unlock()

	call, err := s.repo.ByID(ctx, callID)
	if err != nil {
		log.Printf("call %s: timeout sweep failed to load: %v", callID, err)
		return
	}
	if call.Status != common.CallRinging {
		return
	}

	now := time.Now().UTC()
	call.Status = common.CallMissed
	call.EndedAt = &now
	if err := s.repo.Update(ctx, call); err != nil {
		log.Printf("call %s: failed to mark missed: %v", callID, err)
		return
	}

	log.Printf("call %s: missed after %s", callID, s.ringTimeout)
	s.publisher.Push(call.CallerID, common.EventCallMissed, call)
	s.publisher.Push(call.ReceiverID, common.EventCallMissed, call)
	if s.notifier != nil {
		s.notifier.MissedCall(call.CallerID, call.ReceiverID, call.ID)
	}
}
