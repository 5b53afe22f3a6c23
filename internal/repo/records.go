// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// DailyRecord model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - A second record for the same (user, date) returns ErrDuplicate.
//   - On other DB errors, the raw gorm error is propagated.
//
// Functions:
//
//   - CreateRecord(ctx, db, rec) -> error
//   - GetRecord(ctx, db, id, userID) -> *domain.DailyRecord, error
//   - GetRecordByDate(ctx, db, userID, date) -> *domain.DailyRecord, error
//   - ListRecords(ctx, db, userID, rng, offset, limit) -> []domain.DailyRecord, error
//   - CountRecords(ctx, db, userID, rng) -> int64, error
//   - DeleteRecord(ctx, db, id, userID) -> error
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// DateRange bounds a query by record date, both ends inclusive. A nil end is
// open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) apply(q *gorm.DB) *gorm.DB {
	if r.From != nil {
		q = q.Where("date >= ?", *r.From)
	}
	if r.To != nil {
		q = q.Where("date <= ?", *r.To)
	}
	return q
}

// CreateRecord inserts rec, assigning a UUID when ID is empty. A record that
// already exists for (UserID, Date) yields ErrDuplicate.
func CreateRecord(ctx context.Context, db *gorm.DB, rec *domain.DailyRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetRecord fetches a record by ID and owner.
func GetRecord(ctx context.Context, db *gorm.DB, id, userID string) (*domain.DailyRecord, error) {
	var r domain.DailyRecord
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRecordByDate fetches the user's record for a calendar date.
func GetRecordByDate(ctx context.Context, db *gorm.DB, userID string, date time.Time) (*domain.DailyRecord, error) {
	var r domain.DailyRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecords returns the user's records within rng ordered by date ascending.
// A non-positive limit returns every matching row.
func ListRecords(ctx context.Context, db *gorm.DB, userID string, rng DateRange, offset, limit int) ([]domain.DailyRecord, error) {
	var out []domain.DailyRecord
	q := rng.apply(db.WithContext(ctx).Where("user_id = ?", userID)).
		Order("date ASC, id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountRecords returns the number of the user's records within rng.
func CountRecords(ctx context.Context, db *gorm.DB, userID string, rng DateRange) (int64, error) {
	var total int64
	err := rng.apply(db.WithContext(ctx).Model(&domain.DailyRecord{}).Where("user_id = ?", userID)).
		Count(&total).Error
	return total, err
}

// DeleteRecord removes a record and every child row in one transaction.
// Children are deleted explicitly so the cascade holds even on connections
// opened without foreign key enforcement.
func DeleteRecord(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := GetRecord(ctx, tx, id, userID); err != nil {
			return err
		}
		for _, child := range []any{&domain.Meal{}, &domain.Activity{}, &domain.MoodEvent{}} {
			if err := tx.Where("daily_record_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.DailyRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// isUniqueViolation recognises UNIQUE failures; glebarez/sqlite often returns
// plain-text errors for them.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
