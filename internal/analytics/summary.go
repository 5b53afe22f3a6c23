package analytics

import "time"

// DaySnapshot is the per-date view served by daily and weekly reports. Unlike
// DayFeatures it applies no defaults: missing sleep stays missing.
type DaySnapshot struct {
	RecordID         string    `json:"record_id"`
	Date             time.Time `json:"date"`
	SleepHours       *float64  `json:"sleep_hours"`
	AverageMood      *float64  `json:"average_mood"`
	ActivitiesCount  int       `json:"activities_count"`
	MealsCount       int       `json:"meals_count"`
	MoodEntriesCount int       `json:"mood_entries_count"`
}

// Snapshot returns one DaySnapshot per distinct record, in record order.
func Snapshot(ds Dataset) []DaySnapshot {
	rows := ds.Aggregate(nil)
	out := make([]DaySnapshot, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, DaySnapshot{
			RecordID:         r.RecordID,
			Date:             r.Date,
			SleepHours:       r.SleepDurationHours,
			AverageMood:      r.OverallMood,
			ActivitiesCount:  count(r.ActivitiesCount),
			MealsCount:       count(r.MealsCount),
			MoodEntriesCount: count(r.MoodEntriesCount),
		})
	}
	return out
}

// Overview summarises each collection of a dataset independently.
type Overview struct {
	TotalRecords        int      `json:"total_records"`
	AvgSleepQuality     *float64 `json:"average_sleep_quality"`
	AvgMood             *float64 `json:"average_mood"`
	AvgPhysicalWellness *float64 `json:"average_physical_wellness"`
	AvgMentalWellness   *float64 `json:"average_mental_wellness"`

	TotalMeals        int      `json:"total_meals"`
	AvgTasteRating    *float64 `json:"average_taste_rating"`
	AvgHealthRating   *float64 `json:"average_health_rating"`
	MostCommonPortion string   `json:"most_common_portion_size,omitempty"`

	TotalActivities     int      `json:"total_activities"`
	AvgIntensity        *float64 `json:"average_intensity"`
	AvgEnjoyment        *float64 `json:"average_enjoyment"`
	MostPopularActivity string   `json:"most_popular_activity,omitempty"`

	TotalMoodEntries int    `json:"total_mood_entries"`
	DominantEmotion  string `json:"dominant_emotion,omitempty"`
}

// Summarise builds an Overview of ds.
func Summarise(ds Dataset) Overview {
	var sleep, mood, physical, mental mean
	for _, r := range ds.Records {
		sleep.add(r.SleepQuality)
		mood.add(r.OverallMood)
		physical.add(r.PhysicalWellness)
		mental.add(r.MentalWellness)
	}

	var taste, health mean
	portions := newTally()
	for _, m := range ds.Meals {
		taste.add(m.TasteRating)
		health.add(m.HealthRating)
		portions.add(m.PortionSize)
	}

	var intensity, enjoyment mean
	types := newTally()
	for _, a := range ds.Activities {
		intensity.add(a.Intensity)
		enjoyment.add(a.EnjoymentRating)
		types.add(a.ActivityType)
	}

	emotions := newTally()
	for _, m := range ds.Moods {
		emotions.add(m.Emotion)
	}

	return Overview{
		TotalRecords:        len(ds.Records),
		AvgSleepQuality:     sleep.value(),
		AvgMood:             mood.value(),
		AvgPhysicalWellness: physical.value(),
		AvgMentalWellness:   mental.value(),
		TotalMeals:          len(ds.Meals),
		AvgTasteRating:      taste.value(),
		AvgHealthRating:     health.value(),
		MostCommonPortion:   portions.top(),
		TotalActivities:     len(ds.Activities),
		AvgIntensity:        intensity.value(),
		AvgEnjoyment:        enjoyment.value(),
		MostPopularActivity: types.top(),
		TotalMoodEntries:    len(ds.Moods),
		DominantEmotion:     emotions.top(),
	}
}

func count(v *float64) int {
	if v == nil {
		return 0
	}
	return int(*v)
}
