package handlers

import (
	"context"
	"net/http"
	"testing"
)

func TestMeals_CreateValidateAndList(t *testing.T) {
	env := newTestEnv(t)
	rec, err := env.records.Create(context.Background(), "u1", recordInput("2024-03-01"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	path := "/records/" + rec.ID + "/meals"

	w := do(env.r, http.MethodPost, path, "u1",
		`{"meal_type":"Lunch","meal_time":"2024-03-01T12:30:00Z","food_items":[" salad ",""],"taste_rating":8}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d %s", w.Code, w.Body.String())
	}
	m := decode[map[string]any](t, w)
	if m["meal_type"] != "lunch" || m["portion_size"] != "medium" || m["daily_record_id"] != rec.ID {
		t.Fatalf("unexpected meal: %v", m)
	}

	bad := map[string]string{
		"missing type": `{"portion_size":"small"}`,
		"unknown type": `{"meal_type":"brunch"}`,
		"bad portion":  `{"meal_type":"dinner","portion_size":"huge"}`,
		"bad rating":   `{"meal_type":"dinner","health_rating":0}`,
		"bad time":     `{"meal_type":"dinner","meal_time":"noon"}`,
	}
	for name, body := range bad {
		if w := do(env.r, http.MethodPost, path, "u1", body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s -> %d %s", name, w.Code, w.Body.String())
		}
	}

	w = do(env.r, http.MethodGet, path, "u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	if got := decode[ListMealsResponse](t, w); len(got.Meals) != 1 {
		t.Fatalf("want 1 meal, got %d", len(got.Meals))
	}
}

func TestActivities_CreateDerivesDurationAndRejectsInvertedSpan(t *testing.T) {
	env := newTestEnv(t)
	rec, err := env.records.Create(context.Background(), "u1", recordInput("2024-03-01"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	path := "/records/" + rec.ID + "/activities"

	w := do(env.r, http.MethodPost, path, "u1",
		`{"activity_type":"running","start_time":"2024-03-01T18:00:00Z","end_time":"2024-03-01T18:45:00Z","intensity":6}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d %s", w.Code, w.Body.String())
	}
	a := decode[map[string]any](t, w)
	if a["duration_minutes"] != float64(45) {
		t.Fatalf("duration = %v", a["duration_minutes"])
	}

	w = do(env.r, http.MethodPost, path, "u1",
		`{"activity_type":"running","start_time":"2024-03-01T18:00:00Z","end_time":"2024-03-01T17:00:00Z"}`)
	if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeValidation {
		t.Fatalf("inverted span -> %d %s", w.Code, w.Body.String())
	}
	if w = do(env.r, http.MethodPost, path, "u1", `{"location":"park"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing type -> %d", w.Code)
	}

	w = do(env.r, http.MethodGet, path, "u1", "")
	if got := decode[ListActivitiesResponse](t, w); len(got.Activities) != 1 {
		t.Fatalf("want 1 activity, got %d", len(got.Activities))
	}
}

func TestMoods_RequireIntensityAndOwnership(t *testing.T) {
	env := newTestEnv(t)
	rec, err := env.records.Create(context.Background(), "u1", recordInput("2024-03-01"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	path := "/records/" + rec.ID + "/moods"

	if w := do(env.r, http.MethodPost, path, "u1", `{"emotion":"calm"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing intensity -> %d", w.Code)
	}
	if w := do(env.r, http.MethodPost, path, "u1", `{"emotion":"calm","intensity":12}`); w.Code != http.StatusBadRequest {
		t.Fatalf("out of range intensity -> %d", w.Code)
	}

	w := do(env.r, http.MethodPost, path, "u1", `{"emotion":"Calm","intensity":6,"triggers":" coffee "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d %s", w.Code, w.Body.String())
	}
	e := decode[map[string]any](t, w)
	if e["emotion"] != "calm" || e["triggers"] != "coffee" || e["timestamp"] == nil {
		t.Fatalf("unexpected mood: %v", e)
	}

	// Another user's record looks missing on every entry route.
	for _, p := range []string{"/meals", "/activities", "/moods"} {
		if w := do(env.r, http.MethodGet, "/records/"+rec.ID+p, "u2", ""); w.Code != http.StatusNotFound {
			t.Fatalf("foreign list %s -> %d", p, w.Code)
		}
	}
	if w := do(env.r, http.MethodPost, path, "u2", `{"emotion":"calm","intensity":5}`); w.Code != http.StatusNotFound {
		t.Fatalf("foreign create -> %d", w.Code)
	}
	if w := do(env.r, http.MethodGet, "/records/bogus/moods", "u1", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}

	w = do(env.r, http.MethodGet, path, "u1", "")
	if got := decode[ListMoodsResponse](t, w); len(got.Moods) != 1 {
		t.Fatalf("want 1 mood, got %d", len(got.Moods))
	}
}
