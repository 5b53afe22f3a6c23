package analytics

import (
	"fmt"
	"sort"
)

// Recommendation categories.
const (
	CategorySleep     = "sleep"
	CategoryNutrition = "nutrition"
	CategoryActivity  = "activity"
	CategoryGeneral   = "general"
)

// Recommendation is one prioritized piece of advice. Priority runs from 1
// (lowest) to 5 (highest); Confidence is in [0,1].
type Recommendation struct {
	Category    string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Priority    int     `json:"priority"`
}

// Stats are day-set averages. A nil average means no day had a value.
type Stats struct {
	Days               int      `json:"days"`
	AvgSleepQuality    *float64 `json:"avg_sleep_quality"`
	AvgSleepDuration   *float64 `json:"avg_sleep_duration_hours"`
	AvgHealthRating    *float64 `json:"avg_health_rating"`
	AvgTasteRating     *float64 `json:"avg_taste_rating"`
	AvgActivitiesCount *float64 `json:"avg_activities_count"`
	AvgEnjoyment       *float64 `json:"avg_enjoyment"`
	AvgMood            *float64 `json:"avg_mood"`
}

// Summarize averages the recommendation inputs across rows, ignoring unset
// values.
func Summarize(rows []DayFeatures) Stats {
	avg := func(f Feature) *float64 {
		var m mean
		for i := range rows {
			if v, ok := f.Value(&rows[i]); ok {
				m.addValue(v)
			}
		}
		return m.value()
	}
	return Stats{
		Days:               len(rows),
		AvgSleepQuality:    avg(SleepQuality),
		AvgSleepDuration:   avg(SleepDurationHours),
		AvgHealthRating:    avg(AvgHealthRating),
		AvgTasteRating:     avg(AvgTasteRating),
		AvgActivitiesCount: avg(ActivitiesCount),
		AvgEnjoyment:       avg(AvgEnjoyment),
		AvgMood:            avg(OverallMood),
	}
}

// Rule fires when its metric is present and strictly below Threshold.
// Description is a format string receiving the metric value.
type Rule struct {
	Category    string
	Title       string
	Description string
	Metric      func(Stats) *float64
	Threshold   float64
	Confidence  float64
	Priority    int
}

// DefaultRules is the shipped rule table, in evaluation order.
var DefaultRules = []Rule{
	{
		Category:    CategorySleep,
		Title:       "Improve your sleep quality",
		Description: "Your average sleep quality is %.1f/10. Try an evening wind-down routine and avoid screens before bed.",
		Metric:      func(s Stats) *float64 { return s.AvgSleepQuality },
		Threshold:   6,
		Confidence:  0.9,
		Priority:    4,
	},
	{
		Category:    CategorySleep,
		Title:       "Sleep longer",
		Description: "You sleep %.1f hours on average. 7-9 hours of sleep is recommended.",
		Metric:      func(s Stats) *float64 { return s.AvgSleepDuration },
		Threshold:   7,
		Confidence:  0.8,
		Priority:    3,
	},
	{
		Category:    CategoryNutrition,
		Title:       "Eat healthier",
		Description: "Your average meal health rating is %.1f/10. Try adding more vegetables and fruit.",
		Metric:      func(s Stats) *float64 { return s.AvgHealthRating },
		Threshold:   6,
		Confidence:  0.8,
		Priority:    3,
	},
	{
		Category:    CategoryActivity,
		Title:       "Be more active",
		Description: "You log %.1f activities per day on average. Try adding walks or sport.",
		Metric:      func(s Stats) *float64 { return s.AvgActivitiesCount },
		Threshold:   2,
		Confidence:  0.7,
		Priority:    2,
	},
	{
		Category:    CategoryActivity,
		Title:       "Find activities you enjoy",
		Description: "Your average activity enjoyment is %.1f/10. Try a new hobby.",
		Metric:      func(s Stats) *float64 { return s.AvgEnjoyment },
		Threshold:   6,
		Confidence:  0.7,
		Priority:    2,
	},
}

// StartTracking is returned alone when there is no data at all.
var StartTracking = Recommendation{
	Category:    CategoryGeneral,
	Title:       "Start tracking your days",
	Description: "Log your sleep, meals, activities and mood to get personalised recommendations.",
	Confidence:  0.8,
	Priority:    5,
}

// Recommend evaluates DefaultRules against s.
func Recommend(s Stats) []Recommendation {
	return EvaluateRules(DefaultRules, s)
}

// EvaluateRules runs every rule independently against s and returns the fired
// recommendations ordered by priority, highest first, keeping rule order among
// equal priorities. An empty day-set yields only StartTracking.
func EvaluateRules(rules []Rule, s Stats) []Recommendation {
	if s.Days == 0 {
		return []Recommendation{StartTracking}
	}
	out := make([]Recommendation, 0, len(rules))
	for _, r := range rules {
		v := r.Metric(s)
		if v == nil || *v >= r.Threshold {
			continue
		}
		out = append(out, Recommendation{
			Category:    r.Category,
			Title:       r.Title,
			Description: fmt.Sprintf(r.Description, *v),
			Confidence:  r.Confidence,
			Priority:    r.Priority,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}
