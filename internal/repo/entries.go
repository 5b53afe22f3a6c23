// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the rows that
// hang off a DailyRecord: meals, activities and mood events.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/domain"
)

// CreateMeal inserts m, assigning a UUID when ID is empty.
func CreateMeal(ctx context.Context, db *gorm.DB, m *domain.Meal) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Omit("DailyRecord").Create(m).Error
}

// CreateActivity inserts a, assigning a UUID when ID is empty.
func CreateActivity(ctx context.Context, db *gorm.DB, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Omit("DailyRecord").Create(a).Error
}

// CreateMoodEvent inserts e, assigning a UUID when ID is empty.
func CreateMoodEvent(ctx context.Context, db *gorm.DB, e *domain.MoodEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Omit("DailyRecord").Create(e).Error
}

// ListMeals returns meals for the given records ordered by meal time.
// Meals without a time sort first.
func ListMeals(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.Meal, error) {
	return listChildren[domain.Meal](ctx, db, "meal_time ASC, id ASC", recordIDs)
}

// ListActivities returns activities for the given records ordered by start time.
func ListActivities(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.Activity, error) {
	return listChildren[domain.Activity](ctx, db, "start_time ASC, id ASC", recordIDs)
}

// ListMoodEvents returns mood events for the given records ordered by timestamp.
func ListMoodEvents(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.MoodEvent, error) {
	return listChildren[domain.MoodEvent](ctx, db, "timestamp ASC, id ASC", recordIDs)
}

// maxInParams keeps IN lists under SQLite's bound-variable limit.
const maxInParams = 500

func listChildren[T any](ctx context.Context, db *gorm.DB, order string, recordIDs []string) ([]T, error) {
	var out []T
	for start := 0; start < len(recordIDs); start += maxInParams {
		end := min(start+maxInParams, len(recordIDs))
		var chunk []T
		err := db.WithContext(ctx).
			Where("daily_record_id IN ?", recordIDs[start:end]).
			Order(order).
			Find(&chunk).Error
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}
