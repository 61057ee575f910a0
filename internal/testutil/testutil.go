package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixpoll/internal/domain/poll"
	"pixpoll/internal/repository"
	"pixpoll/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory sqlite database with foreign keys on
// and the full schema migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	if err := repository.InitSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

// CreateTestPoll inserts a poll directly and returns it
func CreateTestPoll(t *testing.T, db *gorm.DB, title string) poll.Poll {
	t.Helper()

	p := poll.Poll{Title: title}
	if err := repository.NewPollRepository(db).Create(t.Context(), &p); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return p
}

// AddTestCandidate adds a candidate to a poll and returns it
func AddTestCandidate(t *testing.T, db *gorm.DB, pollID int64, url string) poll.Candidate {
	t.Helper()

	c := poll.Candidate{PollID: pollID, URL: url}
	if err := repository.NewCandidateRepository(db).Create(t.Context(), &c); err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return c
}

// CastTestVotes records n votes for a candidate
func CastTestVotes(t *testing.T, db *gorm.DB, candidateID int64, n int) {
	t.Helper()

	votes := repository.NewVoteRepository(db)
	for i := 0; i < n; i++ {
		v := poll.Vote{CandidateID: candidateID, SourceAddress: "192.0.2.1"}
		if err := votes.Create(t.Context(), &v); err != nil {
			t.Fatalf("Failed to create test vote: %v", err)
		}
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
