package services_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"match-journal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExport(t *testing.T) {
	env := newTestEnv(t)
	token, userID := registerAndLogin(t, env, "Splat Player", "splat@example.com")

	task := seedTask(t, env.db, userID, "初弾精度", 0)
	match := seedMatch(t, env.db, userID, ptrTime(time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC)), ptrBool(true))
	seedRating(t, env.db, match.ID, task.ID, models.RatingCircle)

	var gotKey, gotContentType string
	var gotData []byte
	env.export.Upload = func(key string, data []byte, contentType string) (string, error) {
		gotKey = key
		gotData = data
		gotContentType = contentType
		return "https://cdn.example.com/" + key, nil
	}
	env.export.Now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}

	resp := doJSON(t, env.app, http.MethodPost, "/exports", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	decode(t, resp, &body)
	assert.Equal(t, gotKey, body.Key)
	assert.Equal(t, "https://cdn.example.com/"+gotKey, body.URL)

	// Per-user prefix from the slugged display name.
	assert.True(t, strings.HasPrefix(gotKey, "exports/splat-player/"), gotKey)
	assert.Equal(t, "application/json", gotContentType)

	var doc struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		Tasks   []models.Task  `json:"tasks"`
		Matches []models.Match `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(gotData, &doc))
	assert.Equal(t, "splat@example.com", doc.User.Email)
	require.Len(t, doc.Tasks, 1)
	require.Len(t, doc.Matches, 1)
	assert.Len(t, doc.Matches[0].Ratings, 1)
}

func TestCreateExportUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	token, _ := registerAndLogin(t, env, "Ika", "ika@example.com")

	// No uploader wired: storage env vars absent.
	resp := doJSON(t, env.app, http.MethodPost, "/exports", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
