package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-day-tracker/internal/http/middleware"
	"github.com/tbourn/go-day-tracker/internal/repo"
	"github.com/tbourn/go-day-tracker/internal/services"
)

// ---------- test DB + wired router ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db        *gorm.DB
	records   *services.RecordService
	analytics *services.AnalyticsService
	h         *Handlers
	r         *gin.Engine
}

// newTestEnv wires real services over a temp SQLite file behind the identity
// and idempotency middleware, mirroring the production route table.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	rs := services.NewRecordService(db, repo.Store{})
	as := services.NewAnalyticsService(db, repo.Store{})
	as.Window = 0
	h := New(rs, as)

	lookup := func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
		_, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
		return err == nil, err
	}

	r := gin.New()
	r.Use(middleware.Identity(""))
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))
	registerTestRoutes(r, h)
	return &testEnv{db: db, records: rs, analytics: as, h: h, r: r}
}

func registerTestRoutes(r gin.IRouter, h *Handlers) {
	r.POST("/records", h.CreateRecord)
	r.GET("/records", h.ListRecords)
	r.GET("/records/:id", h.GetRecord)
	r.DELETE("/records/:id", h.DeleteRecord)
	r.POST("/records/:id/meals", h.AddMeal)
	r.GET("/records/:id/meals", h.ListMeals)
	r.POST("/records/:id/activities", h.AddActivity)
	r.GET("/records/:id/activities", h.ListActivities)
	r.POST("/records/:id/moods", h.AddMood)
	r.GET("/records/:id/moods", h.ListMoods)

	a := r.Group("/analytics")
	a.GET("/features", h.Features)
	a.GET("/correlations", h.Correlations)
	a.GET("/recommendations", h.Recommendations)
	a.GET("/overview", h.Overview)
	a.GET("/daily/:date", h.Daily)
	a.GET("/weekly/:start", h.Weekly)
	a.GET("/model", h.ModelReport)
	a.POST("/model/train", h.TrainModel)
	a.POST("/model/predict", h.Predict)
}

// do sends a request as user (empty means anonymous) with optional headers
// given as key/value pairs.
func do(r http.Handler, method, path, user, body string, headers ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v body=%s", err, w.Body.String())
	}
	return out
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, w).Code
}

func recordInput(day string) services.RecordInput {
	d, _ := time.Parse(time.DateOnly, day)
	return services.RecordInput{Date: d}
}
