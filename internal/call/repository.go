package call

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

type CallRepository interface {
	Create(ctx context.Context, call *dbmysql.Call) error
	ByID(ctx context.Context, id string) (*dbmysql.Call, error)
	FindActiveByPair(ctx context.Context, pairKey string) (*dbmysql.Call, error)
	FindRingingForReceiver(ctx context.Context, receiverID string) (*dbmysql.Call, error)
	Update(ctx context.Context, call *dbmysql.Call) error
}

type callRepo struct {
	db *gorm.DB
}

func NewCallRepository(db *gorm.DB) CallRepository {
	return &callRepo{db: db}
}

func (r *callRepo) Create(ctx context.Context, call *dbmysql.Call) error {
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

func (r *callRepo) ByID(ctx context.Context, id string) (*dbmysql.Call, error) {
	var call dbmysql.Call
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFoundf("call %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load call: %w", err)
	}
	return &call, nil
}

// FindActiveByPair returns (nil, nil) when the pair has no ringing or
// accepted call. Callers hold the pair lock, so check-then-create on top
// of this is race-free.
func (r *callRepo) FindActiveByPair(ctx context.Context, pairKey string) (*dbmysql.Call, error) {
	var call dbmysql.Call
	err := r.db.WithContext(ctx).
		Where("pair_key = ? AND status IN ?", pairKey, []common.CallStatus{common.CallRinging, common.CallAccepted}).
		First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active call: %w", err)
	}
	return &call, nil
}

// FindRingingForReceiver is the poll fallback for clients without a live
// channel. Returns (nil, nil) when nothing is ringing.
func (r *callRepo) FindRingingForReceiver(ctx context.Context, receiverID string) (*dbmysql.Call, error) {
	var call dbmysql.Call
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, common.CallRinging).
		First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query incoming call: %w", err)
	}
	return &call, nil
}

func (r *callRepo) Update(ctx context.Context, call *dbmysql.Call) error {
	if err := r.db.WithContext(ctx).Save(call).Error; err != nil {
		return fmt.Errorf("failed to update call: %w", err)
	}
	return nil
}
