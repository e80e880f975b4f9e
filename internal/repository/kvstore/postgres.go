package kvstore

import (
	"context"
	"errors"
	"time"

	"legalaid-intake-be/internal/model"
	"legalaid-intake-be/pkg/wizard"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore keeps drafts in the draft_entries table.
type PostgresStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

var _ wizard.KeyValueStore = (*PostgresStore)(nil)

func NewPostgresStore(db *gorm.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.DraftEntry
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Where("expires_at IS NULL OR expires_at > ?", s.now()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	entry := model.DraftEntry{Key: key, Value: value}
	if s.ttl > 0 {
		exp := s.now().Add(s.ttl)
		entry.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.DraftEntry{}).Error
}

// PurgeExpired deletes expired drafts and reports how many were removed.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&model.DraftEntry{})
	return res.RowsAffected, res.Error
}
