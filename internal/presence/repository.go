package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
)

type PresenceRepository interface {
	Find(ctx context.Context, userID string) (*dbmysql.PresenceRecord, error)
	Create(ctx context.Context, rec *dbmysql.PresenceRecord) error
	UpdateAvailability(ctx context.Context, userID string, value common.Availability) error
	UpdateConnected(ctx context.Context, userID string, connected bool, lastSeen time.Time) error
}

type presenceRepo struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) PresenceRepository {
	return &presenceRepo{db: db}
}

// Find returns (nil, nil) when no record exists yet.
func (r *presenceRepo) Find(ctx context.Context, userID string) (*dbmysql.PresenceRecord, error) {
	var rec dbmysql.PresenceRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load presence record: %w", err)
	}
	return &rec, nil
}

func (r *presenceRepo) Create(ctx context.Context, rec *dbmysql.PresenceRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create presence record: %w", err)
	}
	return nil
}

func (r *presenceRepo) UpdateAvailability(ctx context.Context, userID string, value common.Availability) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.PresenceRecord{}).
		Where("user_id = ?", userID).
		Update("availability", value).Error
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	return nil
}

func (r *presenceRepo) UpdateConnected(ctx context.Context, userID string, connected bool, lastSeen time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&dbmysql.PresenceRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"connected":    connected,
			"last_seen_at": lastSeen,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update connectivity: %w", err)
	}
	return nil
}
