// Package storage persists verdict records with upsert-by-dedup-key
// semantics, bounding table growth under flood conditions.
package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/microsoc/command-centre/internal/models"
)

// LogStore is the persistent verdict store. A nil *LogStore is a valid
// degraded mode: every method no-ops.
type LogStore struct {
	db *gorm.DB
}

// New migrates the attack log table and returns a store over db.
func New(db *gorm.DB) (*LogStore, error) {
	if err := db.AutoMigrate(&models.AttackLog{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &LogStore{db: db}, nil
}

// UpsertBatch writes verdicts in one bulk statement. Records sharing a dedup
// key are collapsed first so the later verdict's fields win, then the batch
// upserts against existing rows the same way.
func (s *LogStore) UpsertBatch(ctx context.Context, verdicts []models.Verdict) error {
	if s == nil || len(verdicts) == 0 {
		return nil
	}

	staged := make(map[string]int, len(verdicts))
	rows := make([]models.AttackLog, 0, len(verdicts))
	for _, v := range verdicts {
		row := models.NewAttackLog(v)
		if idx, ok := staged[row.DedupKey]; ok {
			rows[idx] = row
			continue
		}
		staged[row.DedupKey] = len(rows)
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("bulk upsert attack logs: %w", err)
	}
	return nil
}

// Upsert writes a single verdict, used for the inline ALLOW fast path.
func (s *LogStore) Upsert(ctx context.Context, v models.Verdict) error {
	if s == nil {
		return nil
	}
	return s.UpsertBatch(ctx, []models.Verdict{v})
}

// ListRecent returns stored verdicts newest-first.
func (s *LogStore) ListRecent(limit int) ([]models.AttackLog, error) {
	if s == nil {
		return nil, nil
	}

	var logs []models.AttackLog
	q := s.db.Order("timestamp desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Count returns the number of stored verdict rows.
func (s *LogStore) Count() (int64, error) {
	if s == nil {
		return 0, nil
	}

	var n int64
	if err := s.db.Model(&models.AttackLog{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
