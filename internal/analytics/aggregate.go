package analytics

import "time"

// Dataset is the raw material for one analysis: a user's daily records in
// their stored order plus every child row, each tagged with its owner id.
type Dataset struct {
	Records    []DailyRecord `json:"records"`
	Meals      []Meal        `json:"meals"`
	Activities []Activity    `json:"activities"`
	Moods      []MoodEvent   `json:"moods"`
}

// Aggregate is shorthand for Aggregate(ds.Records, ds.Meals, ds.Activities, ds.Moods, defaults).
func (ds Dataset) Aggregate(defaults Defaults) []DayFeatures {
	return Aggregate(ds.Records, ds.Meals, ds.Activities, ds.Moods, defaults)
}

// Aggregate joins records with their children and returns exactly one row per
// distinct record id, in record order. Children whose owner is not among
// records are ignored. Unset values are filled from defaults afterwards; a
// nil table leaves them unset.
func Aggregate(records []DailyRecord, meals []Meal, activities []Activity, moods []MoodEvent, defaults Defaults) []DayFeatures {
	mealsBy := groupBy(meals, func(m Meal) string { return m.DailyRecordID })
	actsBy := groupBy(activities, func(a Activity) string { return a.DailyRecordID })
	moodsBy := groupBy(moods, func(m MoodEvent) string { return m.DailyRecordID })

	out := make([]DayFeatures, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}

		row := DayFeatures{
			RecordID:         r.ID,
			Date:             r.Date,
			SleepQuality:     r.SleepQuality,
			OverallMood:      r.OverallMood,
			PhysicalWellness: r.PhysicalWellness,
			MentalWellness:   r.MentalWellness,
		}
		if h, ok := SleepDuration(r.SleepTime, r.WakeUpTime); ok {
			row.SleepDurationHours = Float(h)
		}
		if h, ok := r.WakeUpTime.Hour(); ok {
			row.WakeUpHour = Float(h)
		}
		aggregateMeals(&row, mealsBy[r.ID])
		aggregateActivities(&row, actsBy[r.ID])
		aggregateMoods(&row, moodsBy[r.ID])

		defaults.apply(&row)
		out = append(out, row)
	}
	return out
}

// SleepDuration returns the hours between falling asleep and waking up,
// normalised into [0, 24). Both instants are often stored on the same calendar
// day (sleep 23:00, wake 08:00), so a negative span wraps to the next day.
func SleepDuration(sleep, wake Timestamp) (float64, bool) {
	if !sleep.Valid || !wake.Valid {
		return 0, false
	}
	d := wake.Time.Sub(sleep.Time) % (24 * time.Hour)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d.Hours(), true
}

func aggregateMeals(row *DayFeatures, meals []Meal) {
	if len(meals) == 0 {
		return
	}
	var taste, health, hour mean
	portions := newTally()
	for _, m := range meals {
		taste.add(m.TasteRating)
		health.add(m.HealthRating)
		if h, ok := m.MealTime.Hour(); ok {
			hour.addValue(h)
		}
		portions.add(m.PortionSize)
	}
	row.AvgTasteRating = taste.value()
	row.AvgHealthRating = health.value()
	row.MealsCount = Float(float64(len(meals)))
	row.AvgMealHour = hour.value()
	row.DominantPortionSize = portions.top()
}

func aggregateActivities(row *DayFeatures, acts []Activity) {
	if len(acts) == 0 {
		return
	}
	var intensity, enjoyment mean
	var hours float64
	for _, a := range acts {
		intensity.add(a.Intensity)
		enjoyment.add(a.EnjoymentRating)
		if a.StartTime.Valid && a.EndTime.Valid {
			if d := a.EndTime.Time.Sub(a.StartTime.Time); d >= 0 {
				hours += d.Hours()
			}
		}
	}
	row.ActivitiesCount = Float(float64(len(acts)))
	row.AvgIntensity = intensity.value()
	row.AvgEnjoyment = enjoyment.value()
	row.TotalActivityHours = Float(hours)
}

func aggregateMoods(row *DayFeatures, moods []MoodEvent) {
	if len(moods) == 0 {
		return
	}
	var intensity mean
	emotions := newTally()
	for _, m := range moods {
		intensity.add(m.Intensity)
		emotions.add(m.Emotion)
	}
	row.DominantEmotion = emotions.top()
	row.AvgMoodIntensity = intensity.value()
	row.MoodEntriesCount = Float(float64(len(moods)))
}

// groupBy indexes items by owner id, preserving input order within a group.
func groupBy[T any](items []T, owner func(T) string) map[string][]T {
	idx := make(map[string][]T)
	for _, it := range items {
		id := owner(it)
		idx[id] = append(idx[id], it)
	}
	return idx
}
