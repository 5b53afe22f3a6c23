package analytics

// Defaults maps a feature to the business default used when a day has no data
// for it. Defaults are applied after aggregation and only to unset values;
// they are not statistical imputation.
type Defaults map[Feature]float64

// DefaultFeatureDefaults returns the shipped defaults table. Callers get a
// fresh copy they may modify.
func DefaultFeatureDefaults() Defaults {
	return Defaults{
		SleepDurationHours: 8.0,
		AvgTasteRating:     5.0,
		AvgHealthRating:    5.0,
		MealsCount:         3,
		AvgMealHour:        12,
		ActivitiesCount:    0,
		AvgIntensity:       5.0,
		AvgEnjoyment:       5.0,
		TotalActivityHours: 0,
		AvgMoodIntensity:   5.0,
		MoodEntriesCount:   0,
	}
}

// apply fills unset values of d from the table.
func (t Defaults) apply(d *DayFeatures) {
	for _, f := range NumericFeatures {
		v, ok := t[f]
		if !ok {
			continue
		}
		if p := d.slot(f); p != nil && *p == nil {
			*p = Float(v)
		}
	}
}
