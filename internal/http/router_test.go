package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-day-tracker/internal/config"
	"github.com/tbourn/go-day-tracker/internal/domain"
	"github.com/tbourn/go-day-tracker/internal/http/middleware"
	"github.com/tbourn/go-day-tracker/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func baseConfig() config.Config {
	return config.Config{
		APIBasePath:     "/api/v1",
		DefaultUserID:   "demo-user",
		MaxBodyBytes:    1 << 20,
		MaxPageSize:     50,
		AnalyticsWindow: 30 * 24 * time.Hour,
		IdempotencyTTL:  time.Hour,
		RateRPS:         100,
		RateBurst:       10,
		CORS:            config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:        config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:            config.OTELConfig{ServiceName: "test-svc"},
	}
}

func serve(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t, "router_basic"), baseConfig())

	// /health works
	w := serve(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "private, no-cache" {
		t.Fatalf("Cache-Control = %q", got)
	}

	// /metrics is wired
	w = serve(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	if w = serve(r, http.MethodGet, "/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	if w = serve(r, http.MethodPost, "/health", ""); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	// Swagger stays off unless enabled.
	if w = serve(r, http.MethodGet, "/swagger/index.html", ""); w.Code != http.StatusNotFound {
		t.Fatalf("swagger disabled expected 404, got %d", w.Code)
	}
}

func TestRegisterRoutes_SwaggerEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := baseConfig()
	cfg.SwaggerEnabled = true
	RegisterRoutes(r, newTestDB(t, "router_swagger"), cfg)

	w := serve(r, http.MethodGet, "/swagger/doc.json", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/analytics/correlations") {
		t.Fatalf("doc.json -> %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := baseConfig()
	cfg.APIBasePath = "/api/v2"
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	RegisterRoutes(r, newTestDB(t, "router_cors"), cfg)

	// Any request runs through CORS middleware; header should reflect origin.
	w := serve(r, http.MethodGet, "/health", "", "Origin", "http://example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := serve(r, http.MethodPost, "/echo", "0123456789AB") // 12 bytes
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := serve(r, http.MethodGet, path, "")
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

// A record flows through the whole stack: create, replay, list, analytics.
func TestPipeline_RecordLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := baseConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	db := newTestDB(t, "router_pipeline")
	RegisterRoutes(r, db, cfg)

	today := time.Now().UTC().Format(time.DateOnly)
	body := `{"date":"` + today + `","overall_mood":7,"sleep_quality":6}`
	w := serve(r, http.MethodPost, "/api/v1/records", body,
		middleware.HeaderUserID, "alice", middleware.HeaderIdempotencyKey, "create-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d %s", w.Code, w.Body.String())
	}
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/api/v1/records/") {
		t.Fatalf("Location = %q", loc)
	}

	// Retry: replayed, not a 409.
	w = serve(r, http.MethodPost, "/api/v1/records", body,
		middleware.HeaderUserID, "alice", middleware.HeaderIdempotencyKey, "create-1")
	if w.Code != http.StatusOK || w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("replay -> %d replayed=%q", w.Code, w.Header().Get(middleware.HeaderIdempotencyReplayed))
	}

	var n int64
	db.Model(&domain.Idempotency{}).Where("user_id = ? AND scope = ?", "alice", "POST /api/v1/records").Count(&n)
	if n != 1 {
		t.Fatalf("stored idempotency rows = %d", n)
	}

	// Anonymous callers act as the default user and do not see alice's data.
	w = serve(r, http.MethodGet, "/api/v1/records", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":0`) {
		t.Fatalf("anonymous list -> %d %s", w.Code, w.Body.String())
	}

	// Within the default window the overview counts alice's record.
	w = serve(r, http.MethodGet, "/api/v1/analytics/overview", "", middleware.HeaderUserID, "alice")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total_records":1`) {
		t.Fatalf("overview -> %d %s", w.Code, w.Body.String())
	}

	// A single day is not enough to train on.
	w = serve(r, http.MethodPost, "/api/v1/analytics/model/train", "", middleware.HeaderUserID, "alice")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("train -> %d %s", w.Code, w.Body.String())
	}
}

func TestPipeline_Gzip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t, "router_gzip"), baseConfig())

	w := serve(r, http.MethodGet, "/api/v1/analytics/recommendations", "", "Accept-Encoding", "gzip")
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations -> %d", w.Code)
	}
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q", got)
	}

	// Plain clients get plain JSON.
	w = serve(r, http.MethodGet, "/api/v1/analytics/recommendations", "")
	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("unexpected Content-Encoding %q", got)
	}
}

func TestRegisterRoutes_IdempotencyCallback_ErrorBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "router_err")

	// Wire routes first...
	RegisterRoutes(r, db, baseConfig())

	// ...then force queries to fail by closing the underlying connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()

	// A failing lookup is treated as a miss; 405 is expected for POST /health.
	w := serve(r, http.MethodPost, "/health", "{}",
		middleware.HeaderUserID, "u1", middleware.HeaderIdempotencyKey, "force-error")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_TrainingIsPricedHigher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := baseConfig()
	cfg.RateRPS, cfg.RateBurst = 0.001, trainCost
	RegisterRoutes(r, newTestDB(t, "router_cost"), cfg)

	w := serve(r, http.MethodPost, "/api/v1/analytics/model/train", "", middleware.HeaderUserID, "carol")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("train -> %d %s", w.Code, w.Body.String())
	}
	// The fit drained carol's bucket.
	if w = serve(r, http.MethodGet, "/api/v1/records", "", middleware.HeaderUserID, "carol"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("after train -> %d", w.Code)
	}
	if w = serve(r, http.MethodGet, "/api/v1/records", "", middleware.HeaderUserID, "dave"); w.Code != http.StatusOK {
		t.Fatalf("other user -> %d", w.Code)
	}
}
