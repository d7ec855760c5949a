package repository

import (
	"context"

	"gorm.io/gorm"
)

// Sequence names minted through SequenceRepository.
const (
	UserIDSequence = "user_id"
)

// UserIDStart is the first value handed out for the user_id sequence.
// Lower IDs are reserved for seeded demo accounts.
const UserIDStart = 10

// SequenceRepository mints monotonically increasing IDs backed by a
// counters table, safe under concurrent registration.
type SequenceRepository interface {
	Next(ctx context.Context, name string, start int64) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next returns start on first use of a sequence and increments atomically
// afterwards. The upsert keeps the read-modify-write inside the database so
// two concurrent mints never observe the same value.
func (r *sequenceRepository) Next(ctx context.Context, name string, start int64) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO sequence_counters (name, value)
		 VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET value = value + 1
		 RETURNING value`,
		name, start,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
