// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file loads everything an analysis needs in one call.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/domain"
)

// Dataset is a user's records within a range plus all of their children.
type Dataset struct {
	Records    []domain.DailyRecord
	Meals      []domain.Meal
	Activities []domain.Activity
	Moods      []domain.MoodEvent
}

// LoadDataset reads the user's records within rng (date ascending) and their
// meals, activities and mood events. Reads share one transaction so the
// snapshot is consistent.
func LoadDataset(ctx context.Context, db *gorm.DB, userID string, rng DateRange) (*Dataset, error) {
	ds := &Dataset{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recs, err := ListRecords(ctx, tx, userID, rng, 0, 0)
		if err != nil {
			return err
		}
		ds.Records = recs
		if len(recs) == 0 {
			return nil
		}
		ids := make([]string, len(recs))
		for i, r := range recs {
			ids[i] = r.ID
		}
		if ds.Meals, err = ListMeals(ctx, tx, ids...); err != nil {
			return err
		}
		if ds.Activities, err = ListActivities(ctx, tx, ids...); err != nil {
			return err
		}
		ds.Moods, err = ListMoodEvents(ctx, tx, ids...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ImportDataset inserts every row of ds in one transaction. Rows keep their
// IDs; records are re-owned by userID. Any failure rolls back the whole
// import.
func ImportDataset(ctx context.Context, db *gorm.DB, userID string, ds *Dataset) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range ds.Records {
			ds.Records[i].UserID = userID
			if err := CreateRecord(ctx, tx, &ds.Records[i]); err != nil {
				return err
			}
		}
		for i := range ds.Meals {
			if err := CreateMeal(ctx, tx, &ds.Meals[i]); err != nil {
				return err
			}
		}
		for i := range ds.Activities {
			if err := CreateActivity(ctx, tx, &ds.Activities[i]); err != nil {
				return err
			}
		}
		for i := range ds.Moods {
			if err := CreateMoodEvent(ctx, tx, &ds.Moods[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
