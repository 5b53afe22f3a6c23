// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/domain"
)

// RecordsStats returns aggregate metadata for a user's daily records: the
// total number of rows and the maximum UpdatedAt timestamp among those rows.
//
// When the user has no records, the returned count is 0 and maxUpdatedAt is
// nil.
func RecordsStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.DailyRecord{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// EntryCounts reports how many meals, activities and mood events hang off a
// record.
func EntryCounts(ctx context.Context, db *gorm.DB, recordID string) (meals, activities, moods int64, err error) {
	count := func(model any, n *int64) error {
		return db.WithContext(ctx).Model(model).Where("daily_record_id = ?", recordID).Count(n).Error
	}
	if err = count(&domain.Meal{}, &meals); err != nil {
		return
	}
	if err = count(&domain.Activity{}, &activities); err != nil {
		return
	}
	err = count(&domain.MoodEvent{}, &moods)
	return
}
