// Package domain defines the persistence models for daily records and the
// meals, activities and mood events logged against them. These types are
// mapped with GORM and form the core data layer of the day tracker.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// DailyRecord is the per-day summary a user submits. A user owns at most one
// record per calendar date (enforced by unique index).
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the record owner; part of ux_user_date.
//   - Date: calendar day (UTC midnight); part of ux_user_date.
//   - WakeUpTime / SleepTime: optional instants; missing values stay NULL.
//   - SleepQuality, OverallMood, PhysicalWellness, MentalWellness: optional
//     1..10 ratings.
//   - Notes: free text.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type DailyRecord struct {
	ID               string     `json:"id"                gorm:"type:char(36);primaryKey"`
	UserID           string     `json:"user_id"           gorm:"type:varchar(64);not null;uniqueIndex:ux_user_date,priority:1"`
	Date             time.Time  `json:"date"              gorm:"not null;uniqueIndex:ux_user_date,priority:2"`
	WakeUpTime       *time.Time `json:"wake_up_time"`
	SleepTime        *time.Time `json:"sleep_time"`
	SleepQuality     *float64   `json:"sleep_quality"`
	OverallMood      *float64   `json:"overall_mood"`
	PhysicalWellness *float64   `json:"physical_wellness"`
	MentalWellness   *float64   `json:"mental_wellness"`
	Notes            string     `json:"notes"             gorm:"type:text"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName returns the database table name for DailyRecord.
func (DailyRecord) TableName() string { return "daily_records" }

// Meal is one meal eaten on the day of its record. FoodItems holds a JSON
// array of strings.
type Meal struct {
	ID            string         `json:"id"              gorm:"type:char(36);primaryKey"`
	DailyRecordID string         `json:"daily_record_id" gorm:"type:char(36);not null;index:idx_record_meals"`
	MealTime      *time.Time     `json:"meal_time"`
	MealType      string         `json:"meal_type"       gorm:"type:varchar(16);not null;check:meal_type IN ('breakfast','lunch','dinner','snack')"`
	FoodItems     datatypes.JSON `json:"food_items"      gorm:"type:json"`
	PortionSize   string         `json:"portion_size"    gorm:"type:varchar(16);not null;default:'medium'"`
	TasteRating   *float64       `json:"taste_rating"`
	HealthRating  *float64       `json:"health_rating"`
	CreatedAt     time.Time      `json:"created_at"`

	// DailyRecord is the owning day. Meals are cascade-deleted with it.
	DailyRecord DailyRecord `json:"-" gorm:"foreignKey:DailyRecordID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Meal.
func (Meal) TableName() string { return "meals" }

// Activity is a timed activity. DurationMinutes is derived from the
// start/end span when the client leaves it out.
type Activity struct {
	ID              string     `json:"id"               gorm:"type:char(36);primaryKey"`
	DailyRecordID   string     `json:"daily_record_id"  gorm:"type:char(36);not null;index:idx_record_activities"`
	ActivityType    string     `json:"activity_type"    gorm:"type:varchar(64);not null"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Intensity       *float64   `json:"intensity"`
	Location        string     `json:"location"         gorm:"type:varchar(255)"`
	Description     string     `json:"description"      gorm:"type:text"`
	EnjoymentRating *float64   `json:"enjoyment_rating"`
	CreatedAt       time.Time  `json:"created_at"`

	DailyRecord DailyRecord `json:"-" gorm:"foreignKey:DailyRecordID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Activity.
func (Activity) TableName() string { return "activities" }

// MoodEvent is a point-in-time emotion entry.
type MoodEvent struct {
	ID            string     `json:"id"              gorm:"type:char(36);primaryKey"`
	DailyRecordID string     `json:"daily_record_id" gorm:"type:char(36);not null;index:idx_record_moods"`
	Timestamp     *time.Time `json:"timestamp"`
	Emotion       string     `json:"emotion"         gorm:"type:varchar(64);not null"`
	Intensity     *float64   `json:"intensity"`
	Triggers      string     `json:"triggers"        gorm:"type:text"`
	Notes         string     `json:"notes"           gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at"`

	DailyRecord DailyRecord `json:"-" gorm:"foreignKey:DailyRecordID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MoodEvent.
func (MoodEvent) TableName() string { return "mood_events" }

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{&DailyRecord{}, &Meal{}, &Activity{}, &MoodEvent{}, &Idempotency{}}
}
