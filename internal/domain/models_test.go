package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(DailyRecord{}).TableName(): "daily_records",
		(Meal{}).TableName():        "meals",
		(Activity{}).TableName():    "activities",
		(MoodEvent{}).TableName():   "mood_events",
		(Idempotency{}).TableName(): "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(AllModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range AllModels() {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&DailyRecord{}, "ux_user_date") {
		t.Fatalf("expected unique index ux_user_date on daily_records")
	}
	if !m.HasIndex(&Meal{}, "idx_record_meals") {
		t.Fatalf("expected index idx_record_meals on meals")
	}

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := &DailyRecord{ID: "r1", UserID: "u1", Date: day}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("insert record: %v", err)
	}

	// unique (user_id, date)
	if err := db.Create(&DailyRecord{ID: "r2", UserID: "u1", Date: day}).Error; err == nil {
		t.Fatalf("expected unique violation for second record on the same date")
	}
	if err := db.Create(&DailyRecord{ID: "r3", UserID: "u2", Date: day}).Error; err != nil {
		t.Fatalf("other user, same date should be allowed: %v", err)
	}

	meal := &Meal{ID: "m1", DailyRecordID: "r1", MealType: "lunch", PortionSize: "small", FoodItems: FoodItemsJSON([]string{"rice", "beans"})}
	if err := db.Create(meal).Error; err != nil {
		t.Fatalf("insert meal: %v", err)
	}
	if err := db.Create(&Meal{ID: "m2", DailyRecordID: "r1", MealType: "brunch"}).Error; err == nil {
		t.Fatalf("expected check constraint violation for meal_type")
	}
	if err := db.Create(&Activity{ID: "a1", DailyRecordID: "r1", ActivityType: "run"}).Error; err != nil {
		t.Fatalf("insert activity: %v", err)
	}
	if err := db.Create(&MoodEvent{ID: "e1", DailyRecordID: "r1", Emotion: "calm"}).Error; err != nil {
		t.Fatalf("insert mood: %v", err)
	}

	var got Meal
	if err := db.First(&got, "id = ?", "m1").Error; err != nil {
		t.Fatalf("read meal: %v", err)
	}
	if foods := got.Foods(); len(foods) != 2 || foods[0] != "rice" {
		t.Fatalf("food items round trip = %v", foods)
	}

	// CASCADE: deleting the record removes every child row
	if err := db.Delete(&DailyRecord{}, "id = ?", "r1").Error; err != nil {
		t.Fatalf("delete record: %v", err)
	}
	for _, child := range []any{&Meal{}, &Activity{}, &MoodEvent{}} {
		var cnt int64
		if err := db.Model(child).Where("daily_record_id = ?", "r1").Count(&cnt).Error; err != nil {
			t.Fatalf("count %T: %v", child, err)
		}
		if cnt != 0 {
			t.Fatalf("expected %T to cascade-delete, got count=%d", child, cnt)
		}
	}
}

func TestAnalyticsConversion(t *testing.T) {
	wake := time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC)
	r := DailyRecord{ID: "r1", Date: wake.Truncate(24 * time.Hour), WakeUpTime: &wake, SleepQuality: ptr(7)}
	ar := r.Analytics()
	if !ar.WakeUpTime.Valid || ar.SleepTime.Valid {
		t.Fatalf("timestamps = %+v / %+v", ar.WakeUpTime, ar.SleepTime)
	}
	if *ar.SleepQuality != 7 {
		t.Fatalf("sleep quality = %v", *ar.SleepQuality)
	}

	m := Meal{ID: "m1", DailyRecordID: "r1", FoodItems: []byte("not json")}
	if foods := m.Analytics().FoodItems; foods != nil {
		t.Fatalf("unreadable food items should decode empty, got %v", foods)
	}
	if string(FoodItemsJSON(nil)) != "[]" {
		t.Fatalf("nil food list should encode as []")
	}
}

func ptr(v float64) *float64 { return &v }
