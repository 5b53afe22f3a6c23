package analytics

import "time"

// DailyRecord is the per-day summary a user submits. Ratings are on a 1..10
// scale and optional.
type DailyRecord struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	WakeUpTime       Timestamp `json:"wake_up_time"`
	SleepTime        Timestamp `json:"sleep_time"`
	SleepQuality     *float64  `json:"sleep_quality,omitempty"`
	OverallMood      *float64  `json:"overall_mood,omitempty"`
	PhysicalWellness *float64  `json:"physical_wellness,omitempty"`
	MentalWellness   *float64  `json:"mental_wellness,omitempty"`
	Notes            string    `json:"notes,omitempty"`
}

// Meal belongs to exactly one DailyRecord.
type Meal struct {
	ID            string    `json:"id"`
	DailyRecordID string    `json:"daily_record_id"`
	MealTime      Timestamp `json:"meal_time"`
	MealType      string    `json:"meal_type"`
	FoodItems     []string  `json:"food_items,omitempty"`
	PortionSize   string    `json:"portion_size"`
	TasteRating   *float64  `json:"taste_rating,omitempty"`
	HealthRating  *float64  `json:"health_rating,omitempty"`
}

// Activity belongs to exactly one DailyRecord.
type Activity struct {
	ID              string    `json:"id"`
	DailyRecordID   string    `json:"daily_record_id"`
	ActivityType    string    `json:"activity_type"`
	StartTime       Timestamp `json:"start_time"`
	EndTime         Timestamp `json:"end_time"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Intensity       *float64  `json:"intensity,omitempty"`
	Location        string    `json:"location,omitempty"`
	Description     string    `json:"description,omitempty"`
	EnjoymentRating *float64  `json:"enjoyment_rating,omitempty"`
}

// MoodEvent belongs to exactly one DailyRecord.
type MoodEvent struct {
	ID            string    `json:"id"`
	DailyRecordID string    `json:"daily_record_id"`
	Timestamp     Timestamp `json:"timestamp"`
	Emotion       string    `json:"emotion"`
	Intensity     *float64  `json:"intensity,omitempty"`
	Triggers      string    `json:"triggers,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Feature names a column of DayFeatures.
type Feature string

// Numeric feature columns.
const (
	SleepQuality       Feature = "sleep_quality"
	SleepDurationHours Feature = "sleep_duration_hours"
	WakeUpHour         Feature = "wake_up_hour"
	OverallMood        Feature = "overall_mood"
	PhysicalWellness   Feature = "physical_wellness"
	MentalWellness     Feature = "mental_wellness"
	AvgTasteRating     Feature = "avg_taste_rating"
	AvgHealthRating    Feature = "avg_health_rating"
	MealsCount         Feature = "meals_count"
	AvgMealHour        Feature = "avg_meal_hour"
	ActivitiesCount    Feature = "activities_count"
	AvgIntensity       Feature = "avg_intensity"
	AvgEnjoyment       Feature = "avg_enjoyment"
	TotalActivityHours Feature = "total_activity_hours"
	AvgMoodIntensity   Feature = "avg_mood_intensity"
	MoodEntriesCount   Feature = "mood_entries_count"
)

// NumericFeatures is the canonical column order. Correlation ties are broken
// by this order.
var NumericFeatures = []Feature{
	SleepQuality,
	SleepDurationHours,
	WakeUpHour,
	OverallMood,
	PhysicalWellness,
	MentalWellness,
	AvgTasteRating,
	AvgHealthRating,
	MealsCount,
	AvgMealHour,
	ActivitiesCount,
	AvgIntensity,
	AvgEnjoyment,
	TotalActivityHours,
	AvgMoodIntensity,
	MoodEntriesCount,
}

// DayFeatures is the derived, never-persisted view of one DailyRecord joined
// with its children. Unset numeric values are nil.
type DayFeatures struct {
	RecordID string    `json:"record_id"`
	Date     time.Time `json:"date"`

	SleepQuality     *float64 `json:"sleep_quality"`
	OverallMood      *float64 `json:"overall_mood"`
	PhysicalWellness *float64 `json:"physical_wellness"`
	MentalWellness   *float64 `json:"mental_wellness"`

	SleepDurationHours *float64 `json:"sleep_duration_hours"`
	WakeUpHour         *float64 `json:"wake_up_hour"`

	AvgTasteRating      *float64 `json:"avg_taste_rating"`
	AvgHealthRating     *float64 `json:"avg_health_rating"`
	MealsCount          *float64 `json:"meals_count"`
	AvgMealHour         *float64 `json:"avg_meal_hour"`
	DominantPortionSize string   `json:"dominant_portion_size,omitempty"`

	ActivitiesCount    *float64 `json:"activities_count"`
	AvgIntensity       *float64 `json:"avg_intensity"`
	AvgEnjoyment       *float64 `json:"avg_enjoyment"`
	TotalActivityHours *float64 `json:"total_activity_hours"`

	DominantEmotion  string   `json:"dominant_emotion,omitempty"`
	AvgMoodIntensity *float64 `json:"avg_mood_intensity"`
	MoodEntriesCount *float64 `json:"mood_entries_count"`
}

// Value returns the value of column f in row d.
func (f Feature) Value(d *DayFeatures) (float64, bool) {
	p := d.slot(f)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// slot returns the address of the field backing f, or nil for unknown names.
func (d *DayFeatures) slot(f Feature) **float64 {
	switch f {
	case SleepQuality:
		return &d.SleepQuality
	case SleepDurationHours:
		return &d.SleepDurationHours
	case WakeUpHour:
		return &d.WakeUpHour
	case OverallMood:
		return &d.OverallMood
	case PhysicalWellness:
		return &d.PhysicalWellness
	case MentalWellness:
		return &d.MentalWellness
	case AvgTasteRating:
		return &d.AvgTasteRating
	case AvgHealthRating:
		return &d.AvgHealthRating
	case MealsCount:
		return &d.MealsCount
	case AvgMealHour:
		return &d.AvgMealHour
	case ActivitiesCount:
		return &d.ActivitiesCount
	case AvgIntensity:
		return &d.AvgIntensity
	case AvgEnjoyment:
		return &d.AvgEnjoyment
	case TotalActivityHours:
		return &d.TotalActivityHours
	case AvgMoodIntensity:
		return &d.AvgMoodIntensity
	case MoodEntriesCount:
		return &d.MoodEntriesCount
	}
	return nil
}

// Float returns a pointer to v. Handy for building optional ratings.
func Float(v float64) *float64 { return &v }
