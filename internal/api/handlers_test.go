package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lexicards/internal/deck"
	"lexicards/internal/domain"
	"lexicards/internal/migrations"
	"lexicards/internal/repository/sqlite"
	"lexicards/internal/review"
	"lexicards/internal/service"
	"lexicards/internal/testutil"
	"lexicards/internal/vocab"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func setupTestRouter(t *testing.T, strategy string) *chi.Mux {
	t.Helper()

	entries := []domain.VocabEntry{
		{Word: "Abridge", Meaning: "shorten", Synonym: "condense", Antonym: "expand"},
		testutil.NewTestEntry("Ant", "an insect"),
		testutil.NewTestEntry("Bee", "buzzes"),
	}
	return setupRouterWith(t, strategy, entries, vocab.Result{Entries: entries, Status: "Loaded 3 words"})
}

func setupRouterWith(t *testing.T, strategy string, entries []domain.VocabEntry, loaded vocab.Result) *chi.Mux {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db.DB, migrations.SQLite, testutil.NewTestLogger()))

	d := deck.NewDeck(entries)
	repo := sqlite.NewStateRepo(db)
	clock := testutil.FixedClock(testNow)
	logger := testutil.NewTestLogger()

	study := service.NewStudyService(d, repo, strategy, clock, logger)
	stats := service.NewStatsService(d, repo, clock, logger)
	return NewRouter(NewHandler(study, stats, loaded, logger), logger)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func startSession(t *testing.T, router http.Handler, profile, letter string) SessionResponse {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/v1/sessions", `{"profile":"`+profile+`","letter":"`+letter+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeSession(t, rec)
}

func TestHandler_HealthCheck(t *testing.T) {
	router := setupTestRouter(t, review.StrategySM2)

	rec := do(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_ListLetters(t *testing.T) {
	router := setupTestRouter(t, review.StrategyLeveling)

	rec := do(t, router, http.MethodGet, "/api/v1/letters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp LettersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "leveling", resp.Scheduler)
	assert.Equal(t, "Loaded 3 words", resp.Status)
	assert.False(t, resp.Fallback)
	require.Len(t, resp.Letters, 26)
	assert.Equal(t, 2, resp.Letters[0].Count)
	assert.True(t, resp.Letters[1].Available)
	assert.False(t, resp.Letters[2].Available)
}

func TestHandler_StartSession(t *testing.T) {
	router := setupTestRouter(t, review.StrategySM2)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid letter",
			body:       `{"profile":"alice","letter":"a"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "all letters",
			body:       `{"profile":"alice"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid letter",
			body:       `{"profile":"alice","letter":"7"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing profile",
			body:       `{"letter":"A"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "profile with slash",
			body:       `{"profile":"a/b","letter":"A"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       `{invalid}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/v1/sessions", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_StudyFlow(t *testing.T) {
	router := setupTestRouter(t, review.StrategySM2)

	sess := startSession(t, router, "alice", "A")
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "Abridge", sess.Card.FrontText)
	assert.Equal(t, 2, sess.Card.Total)
	assert.Equal(t, []domain.Grade{domain.Again, domain.Hard, domain.Good, domain.Easy}, sess.Grades)

	base := "/api/v1/sessions/" + sess.ID

	rec := do(t, router, http.MethodPost, base+"/flip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	flipped := decodeSession(t, rec)
	assert.True(t, flipped.Card.Flipped)
	assert.Contains(t, flipped.Card.BackText, "Antonym: expand")

	rec = do(t, router, http.MethodPost, base+"/grade", `{"grade":"good"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	graded := decodeSession(t, rec)
	assert.Empty(t, graded.Warning)
	assert.Equal(t, "Ant", graded.Card.FrontText)
	assert.Equal(t, 1, graded.Card.Total)

	rec = do(t, router, http.MethodPost, base+"/grade", `{"grade":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeSession(t, rec).Card.Empty)

	rec = do(t, router, http.MethodGet, base+"/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report ReportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.Len(t, report.Learned, 2)
	assert.Equal(t, "Abridge", report.Learned[0].Word)
	assert.Equal(t, 0, report.Remaining)

	// Progress survives into a new session: both A words are due later
	next := startSession(t, router, "alice", "A")
	assert.True(t, next.Card.Empty)

	rec = do(t, router, http.MethodGet, "/api/v1/profiles/alice/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 0, stats.DueToday)
	assert.Equal(t, 2, stats.Later)
	assert.Equal(t, 1, stats.NeverSeen)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, domain.Date("2025-06-16"), stats.NextDue)

	rec = do(t, router, http.MethodDelete, "/api/v1/profiles/alice/progress", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "reset ends the profile's sessions")

	fresh := startSession(t, router, "alice", "A")
	assert.Equal(t, 2, fresh.Card.Total)
}

func TestHandler_Navigation(t *testing.T) {
	router := setupTestRouter(t, review.StrategyAgain)
	sess := startSession(t, router, "bob", "all")
	base := "/api/v1/sessions/" + sess.ID

	tests := []struct {
		name      string
		path      string
		wantFront string
		wantPos   int
	}{
		{name: "next", path: base + "/next", wantFront: "Ant", wantPos: 2},
		{name: "next again", path: base + "/next", wantFront: "Bee", wantPos: 3},
		{name: "next wraps", path: base + "/next", wantFront: "Abridge", wantPos: 1},
		{name: "prev wraps", path: base + "/prev", wantFront: "Bee", wantPos: 3},
		{name: "restart", path: base + "/restart", wantFront: "Abridge", wantPos: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decodeSession(t, rec)
			assert.Equal(t, tt.wantFront, resp.Card.FrontText)
			assert.Equal(t, tt.wantPos, resp.Card.Position)
		})
	}
}

func TestHandler_GradeErrors(t *testing.T) {
	router := setupTestRouter(t, review.StrategyAgain)
	sess := startSession(t, router, "bob", "A")
	base := "/api/v1/sessions/" + sess.ID

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "unsupported by scheduler", path: base + "/grade", body: `{"grade":"easy"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown grade name", path: base + "/grade", body: `{"grade":"perfect"}`, wantStatus: http.StatusBadRequest},
		{name: "grade out of range", path: base + "/grade", body: `{"grade":9}`, wantStatus: http.StatusBadRequest},
		{name: "missing grade", path: base + "/grade", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "move on", path: base + "/grade", body: `{"grade":"move_on"}`, wantStatus: http.StatusOK},
		{name: "unknown session", path: "/api/v1/sessions/nope/grade", body: `{"grade":"again"}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_EndSession(t *testing.T) {
	router := setupTestRouter(t, review.StrategyAgain)
	sess := startSession(t, router, "carol", "B")

	rec := do(t, router, http.MethodDelete, "/api/v1/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/sessions/"+sess.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/report", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_InvalidProfile(t *testing.T) {
	router := setupTestRouter(t, review.StrategySM2)

	rec := do(t, router, http.MethodGet, "/api/v1/profiles/bad%20name/stats", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/profiles/bad%20name/progress", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecoverer(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Recoverer(testutil.NewTestLogger()))
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := do(t, r, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestHandler_FallbackWordList(t *testing.T) {
	loaded := vocab.Result{
		Entries:  vocab.Fallback(),
		Fallback: true,
		Status:   "Could not load word list, showing sample words",
	}
	router := setupRouterWith(t, review.StrategySM2, loaded.Entries, loaded)

	rec := do(t, router, http.MethodGet, "/api/v1/letters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var letters LettersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&letters))
	assert.True(t, letters.Fallback)
	assert.Equal(t, loaded.Status, letters.Status)

	session := startSession(t, router, "alice", "all")
	assert.Equal(t, loaded.Status, session.Notice)
	assert.Equal(t, 3, session.Card.Total)

	rec = do(t, router, http.MethodGet, "/api/v1/sessions/"+session.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeSession(t, rec).Notice)
}

func TestHandler_LoadedWordListHasNoNotice(t *testing.T) {
	router := setupTestRouter(t, review.StrategySM2)

	session := startSession(t, router, "alice", "A")
	assert.Empty(t, session.Notice)
}

func TestHandler_GetWord(t *testing.T) {
	router := setupTestRouter(t, review.StrategySM2)

	tests := []struct {
		name       string
		word       string
		wantStatus int
		wantWord   string
	}{
		{name: "exact", word: "Abridge", wantStatus: http.StatusOK, wantWord: "Abridge"},
		{name: "lower case", word: "bee", wantStatus: http.StatusOK, wantWord: "Bee"},
		{name: "unknown", word: "zebra", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/api/v1/words/"+tt.word, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantWord == "" {
				return
			}
			var entry domain.VocabEntry
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&entry))
			assert.Equal(t, tt.wantWord, entry.Word)
		})
	}
}

func TestHandler_SessionIntervals(t *testing.T) {
	router := setupTestRouter(t, review.StrategySM2)

	session := startSession(t, router, "alice", "A")

	assert.Equal(t, map[domain.Grade]int{
		domain.Again: 1, domain.Hard: 1, domain.Good: 1, domain.Easy: 1,
	}, session.Card.Intervals)
	assert.Zero(t, session.Card.Round)
}

func TestHandler_LevelingRound(t *testing.T) {
	router := setupTestRouter(t, review.StrategyLeveling)

	session := startSession(t, router, "alice", "A")
	assert.Equal(t, 1, session.Card.Round)

	rec := do(t, router, http.MethodPost, "/api/v1/sessions/"+session.ID+"/grade", `{"grade":"hard"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeSession(t, rec)
	assert.Equal(t, 1, resp.Card.Round)
	assert.Equal(t, 1, resp.Card.Parked[domain.Hard])
	assert.Nil(t, resp.Card.Intervals)
}
