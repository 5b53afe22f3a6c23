package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/domain"
)

// Store exposes the package functions as methods so callers can depend on
// small interfaces (services.RecordRepo, services.DatasetLoader) instead of
// this package. It carries no state; the handle is passed on every call.
type Store struct{}

func (Store) CreateRecord(ctx context.Context, db *gorm.DB, rec *domain.DailyRecord) error {
	return CreateRecord(ctx, db, rec)
}

func (Store) GetRecord(ctx context.Context, db *gorm.DB, id, userID string) (*domain.DailyRecord, error) {
	return GetRecord(ctx, db, id, userID)
}

func (Store) ListRecords(ctx context.Context, db *gorm.DB, userID string, rng DateRange, offset, limit int) ([]domain.DailyRecord, error) {
	return ListRecords(ctx, db, userID, rng, offset, limit)
}

func (Store) CountRecords(ctx context.Context, db *gorm.DB, userID string, rng DateRange) (int64, error) {
	return CountRecords(ctx, db, userID, rng)
}

func (Store) DeleteRecord(ctx context.Context, db *gorm.DB, id, userID string) error {
	return DeleteRecord(ctx, db, id, userID)
}

func (Store) CreateMeal(ctx context.Context, db *gorm.DB, m *domain.Meal) error {
	return CreateMeal(ctx, db, m)
}

func (Store) CreateActivity(ctx context.Context, db *gorm.DB, a *domain.Activity) error {
	return CreateActivity(ctx, db, a)
}

func (Store) CreateMoodEvent(ctx context.Context, db *gorm.DB, e *domain.MoodEvent) error {
	return CreateMoodEvent(ctx, db, e)
}

func (Store) ListMeals(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.Meal, error) {
	return ListMeals(ctx, db, recordIDs...)
}

func (Store) ListActivities(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.Activity, error) {
	return ListActivities(ctx, db, recordIDs...)
}

func (Store) ListMoodEvents(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.MoodEvent, error) {
	return ListMoodEvents(ctx, db, recordIDs...)
}

func (Store) LoadDataset(ctx context.Context, db *gorm.DB, userID string, rng DateRange) (*Dataset, error) {
	return LoadDataset(ctx, db, userID, rng)
}

func (Store) ImportDataset(ctx context.Context, db *gorm.DB, userID string, ds *Dataset) error {
	return ImportDataset(ctx, db, userID, ds)
}
