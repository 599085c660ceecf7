package services_test

import (
	"net/http"
	"testing"
	"time"

	"match-journal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMatchFoldsFreeText(t *testing.T) {
	env := newTestEnv(t)
	token, _ := registerAndLogin(t, env, "Ika", "ika@example.com")

	resp := doJSON(t, env.app, http.MethodPost, "/matches", token, fiber.Map{
		"played_at": "2026-08-30T21:15:00",
		"mode":      "Ｘマッチ", // full-width X
		"rule":      "エリア",
		"is_win":    true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var match models.Match
	decode(t, resp, &match)
	assert.NotEmpty(t, match.ID)
	require.NotNil(t, match.Mode)
	assert.Equal(t, "Xマッチ", *match.Mode)
	require.NotNil(t, match.PlayedAt)
	require.NotNil(t, match.IsWin)
	assert.True(t, *match.IsWin)
}

func TestCreateMatchRejectsBadPlayedAt(t *testing.T) {
	env := newTestEnv(t)
	token, _ := registerAndLogin(t, env, "Ika", "ika@example.com")

	resp := doJSON(t, env.app, http.MethodPost, "/matches", token, fiber.Map{
		"played_at": "yesterday evening",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.EqualValues(t, 0, tableCount(t, env.db, &models.Match{}))
}

func TestListMatchesDateFilter(t *testing.T) {
	env := newTestEnv(t)
	token, userID := registerAndLogin(t, env, "Ika", "ika@example.com")

	day1 := time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	seedMatch(t, env.db, userID, ptrTime(day1), ptrBool(true))
	seedMatch(t, env.db, userID, ptrTime(day1.Add(1*time.Hour)), ptrBool(false))
	seedMatch(t, env.db, userID, ptrTime(day2), nil)

	resp := doJSON(t, env.app, http.MethodGet, "/matches?date=2026-08-29", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var matches []models.Match
	decode(t, resp, &matches)
	require.Len(t, matches, 2)
	// Newest first within the day.
	assert.True(t, matches[0].PlayedAt.After(*matches[1].PlayedAt))

	resp = doJSON(t, env.app, http.MethodGet, "/matches?date=not-a-date", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestListMatchesPagination(t *testing.T) {
	env := newTestEnv(t)
	token, userID := registerAndLogin(t, env, "Ika", "ika@example.com")

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedMatch(t, env.db, userID, ptrTime(base.Add(time.Duration(i)*time.Minute)), nil)
	}

	resp := doJSON(t, env.app, http.MethodGet, "/matches?page=1&per_page=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page1 []models.Match
	decode(t, resp, &page1)
	require.Len(t, page1, 2)

	resp = doJSON(t, env.app, http.MethodGet, "/matches?page=3&per_page=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page3 []models.Match
	decode(t, resp, &page3)
	assert.Len(t, page3, 1)

	// Out-of-range per_page falls back into bounds instead of erroring.
	resp = doJSON(t, env.app, http.MethodGet, "/matches?per_page=0", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, env.app, http.MethodGet, "/matches?per_page=500", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetMatchHidesForeignMatches(t *testing.T) {
	env := newTestEnv(t)
	token, _ := registerAndLogin(t, env, "Ika", "ika@example.com")
	_, otherID := registerAndLogin(t, env, "Tako", "tako@example.com")

	foreign := seedMatch(t, env.db, otherID, nil, nil)

	// Another user's match is a 404, not a 403: existence stays hidden.
	resp := doJSON(t, env.app, http.MethodGet, "/matches/"+foreign.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMatchIncludesRatings(t *testing.T) {
	env := newTestEnv(t)
	token, userID := registerAndLogin(t, env, "Ika", "ika@example.com")

	task := seedTask(t, env.db, userID, "初弾精度", 0)
	match := seedMatch(t, env.db, userID, nil, ptrBool(true))
	seedRating(t, env.db, match.ID, task.ID, models.RatingCircle)

	resp := doJSON(t, env.app, http.MethodGet, "/matches/"+match.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Match
	decode(t, resp, &got)
	require.Len(t, got.Ratings, 1)
	assert.Equal(t, models.RatingCircle, got.Ratings[0].Rating)
	assert.Equal(t, "初弾精度", got.Ratings[0].Task.Title)
}

func TestUpdateMatchNote(t *testing.T) {
	env := newTestEnv(t)
	token, userID := registerAndLogin(t, env, "Ika", "ika@example.com")
	otherToken, _ := registerAndLogin(t, env, "Tako", "tako@example.com")

	match := seedMatch(t, env.db, userID, nil, nil)

	resp := doJSON(t, env.app, http.MethodPatch, "/matches/"+match.ID, token, fiber.Map{
		"note": "リスキル対策を考える",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved models.Match
	require.NoError(t, env.db.First(&saved, "id = ?", match.ID).Error)
	require.NotNil(t, saved.Note)
	assert.Equal(t, "リスキル対策を考える", *saved.Note)

	// Writes by a non-owner are an explicit 403.
	resp = doJSON(t, env.app, http.MethodPatch, "/matches/"+match.ID, otherToken, fiber.Map{
		"note": "should not land",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPatch, "/matches/missing-id", token, fiber.Map{
		"note": "x",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
