// Package numbering assigns the human-readable OP### sequence to new
// operations.
//
// Deriving the number from the live record count races under concurrent
// submissions and repeats numbers after deletions, so the sequence is held in
// an atomically incremented Redis counter, seeded once from the highest
// number ever issued. Format keeps the historical count-based contract.
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"credops-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const counterKey = "operations:number_seq"

// Format renders the operation number for a given existing-record count:
// "OP" plus count+1 zero-padded to at least 3 digits. Grows past 3 digits
// once the count exceeds 999.
func Format(count int64) string {
	return fmt.Sprintf("OP%03d", count+1)
}

// Service issues operation numbers. Any failure is fatal to the submission:
// the caller must not create a record without a number.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Next reserves and returns the next operation number.
func (s *Service) Next(ctx context.Context) (string, error) {
	if err := s.seed(ctx); err != nil {
		return "", fmt.Errorf("numbering: seed counter: %w", err)
	}
	n, err := s.Rdb.Incr(ctx, counterKey).Result()
	if err != nil {
		return "", fmt.Errorf("numbering: increment counter: %w", err)
	}
	return Format(n - 1), nil
}

// seed initializes the counter from the highest number already issued,
// soft-deleted rows included, so a reseed (first boot over existing data,
// Redis flush) can never re-issue a number still held by a deleted row.
// SETNX makes this a one-time operation.
func (s *Service) seed(ctx context.Context) error {
	exists, err := s.Rdb.Exists(ctx, counterKey).Result()
	if err != nil {
		return err
	}
	if exists == 1 {
		return nil
	}
	var numbers []string
	if err := s.DB.WithContext(ctx).Model(&models.Operation{}).Unscoped().Pluck("number", &numbers).Error; err != nil {
		return err
	}
	var highest int64
	for _, n := range numbers {
		if v, ok := numberSuffix(n); ok && v > highest {
			highest = v
		}
	}
	return s.Rdb.SetNX(ctx, counterKey, highest, 0).Err()
}

func numberSuffix(number string) (int64, bool) {
	if !strings.HasPrefix(number, "OP") {
		return 0, false
	}
	v, err := strconv.ParseInt(number[2:], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
