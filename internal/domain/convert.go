package domain

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/tbourn/go-day-tracker/internal/analytics"
)

// Analytics converts the stored record into the analytics input shape.
func (r DailyRecord) Analytics() analytics.DailyRecord {
	return analytics.DailyRecord{
		ID:               r.ID,
		Date:             r.Date,
		WakeUpTime:       analytics.AtPtr(r.WakeUpTime),
		SleepTime:        analytics.AtPtr(r.SleepTime),
		SleepQuality:     r.SleepQuality,
		OverallMood:      r.OverallMood,
		PhysicalWellness: r.PhysicalWellness,
		MentalWellness:   r.MentalWellness,
		Notes:            r.Notes,
	}
}

// Analytics converts the stored meal. An unreadable FoodItems column
// decodes as an empty list.
func (m Meal) Analytics() analytics.Meal {
	return analytics.Meal{
		ID:            m.ID,
		DailyRecordID: m.DailyRecordID,
		MealTime:      analytics.AtPtr(m.MealTime),
		MealType:      m.MealType,
		FoodItems:     m.Foods(),
		PortionSize:   m.PortionSize,
		TasteRating:   m.TasteRating,
		HealthRating:  m.HealthRating,
	}
}

// Foods decodes FoodItems.
func (m Meal) Foods() []string {
	if len(m.FoodItems) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(m.FoodItems, &out); err != nil {
		return nil
	}
	return out
}

// FoodItemsJSON encodes a food list for storage.
func FoodItemsJSON(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

// Analytics converts the stored activity.
func (a Activity) Analytics() analytics.Activity {
	return analytics.Activity{
		ID:              a.ID,
		DailyRecordID:   a.DailyRecordID,
		ActivityType:    a.ActivityType,
		StartTime:       analytics.AtPtr(a.StartTime),
		EndTime:         analytics.AtPtr(a.EndTime),
		DurationMinutes: a.DurationMinutes,
		Intensity:       a.Intensity,
		Location:        a.Location,
		Description:     a.Description,
		EnjoymentRating: a.EnjoymentRating,
	}
}

// Analytics converts the stored mood event.
func (m MoodEvent) Analytics() analytics.MoodEvent {
	return analytics.MoodEvent{
		ID:            m.ID,
		DailyRecordID: m.DailyRecordID,
		Timestamp:     analytics.AtPtr(m.Timestamp),
		Emotion:       m.Emotion,
		Intensity:     m.Intensity,
		Triggers:      m.Triggers,
		Notes:         m.Notes,
	}
}
