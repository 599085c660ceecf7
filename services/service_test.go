package services_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"match-journal/handlers"
	"match-journal/models"
	"match-journal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full app against an in-memory database. Services are
// exposed so tests can pin clocks or inject uploaders.
type testEnv struct {
	app         *fiber.App
	db          *gorm.DB
	auth        *services.AuthService
	summary     *services.SummaryService
	assignments *services.AssignmentService
	export      *services.ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.Task{},
		&models.Match{},
		&models.MatchRating{},
		&models.DailyTaskAssignment{},
	))

	env := &testEnv{
		app:         fiber.New(),
		db:          db,
		auth:        services.NewAuthService(db),
		summary:     services.NewSummaryService(db, time.UTC),
		assignments: services.NewAssignmentService(db, time.UTC),
		export:      services.NewExportService(db),
	}

	handlers.SetupAuthRoutes(env.app, db, env.auth)
	handlers.SetupTaskRoutes(env.app, db, services.NewTaskService(db))
	handlers.SetupMatchRoutes(env.app, db, services.NewMatchService(db, time.UTC), env.summary)
	handlers.SetupAssignmentRoutes(env.app, db, env.assignments)
	handlers.SetupExportRoutes(env.app, db, env.export)

	return env
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates an account through the API and returns its
// bearer token and user id.
func registerAndLogin(t *testing.T, env *testEnv, name, email string) (string, string) {
	t.Helper()

	resp := doJSON(t, env.app, http.MethodPost, "/register", "", fiber.Map{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/login", "", fiber.Map{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token, body.User.ID
}

func seedTask(t *testing.T, db *gorm.DB, userID, title string, sortOrder int) models.Task {
	t.Helper()
	task := models.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		SortOrder: sortOrder,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func seedMatch(t *testing.T, db *gorm.DB, userID string, playedAt *time.Time, isWin *bool) models.Match {
	t.Helper()
	match := models.Match{
		ID:       uuid.NewString(),
		UserID:   userID,
		PlayedAt: playedAt,
		IsWin:    isWin,
	}
	require.NoError(t, db.Create(&match).Error)
	return match
}

func seedRating(t *testing.T, db *gorm.DB, matchID, taskID string, rating models.Rating) models.MatchRating {
	t.Helper()
	row := models.MatchRating{
		ID:      uuid.NewString(),
		MatchID: matchID,
		TaskID:  taskID,
		Rating:  rating,
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func tableCount(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func ptrBool(b bool) *bool           { return &b }
func ptrTime(v time.Time) *time.Time { return &v }
