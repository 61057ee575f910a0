package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pixpoll/internal/domain/poll"
	"pixpoll/internal/testutil"
	"pixpoll/internal/transport/httpdto"
	pixpoll_errors "pixpoll/pkg/errors"

	"github.com/gin-gonic/gin"
)

// stubAPI returns canned results and records the last vote source.
type stubAPI struct {
	err        error
	found      bool
	lastSource string
	lastPollID int64
}

var fixedTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func (s *stubAPI) CreatePoll(_ context.Context, title string) (poll.Poll, error) {
	if s.err != nil {
		return poll.Poll{}, s.err
	}
	return poll.Poll{ID: 1, Title: title, CreationTime: fixedTime}, nil
}

func (s *stubAPI) CreateCandidate(_ context.Context, pollID int64, url string) (poll.Candidate, error) {
	s.lastPollID = pollID
	if s.err != nil {
		return poll.Candidate{}, s.err
	}
	return poll.Candidate{ID: 2, PollID: pollID, URL: url}, nil
}

func (s *stubAPI) CastVote(_ context.Context, candidateID int64, source string) (poll.Vote, error) {
	s.lastSource = source
	if s.err != nil {
		return poll.Vote{}, s.err
	}
	return poll.Vote{ID: 3, CandidateID: candidateID, SourceAddress: source, CreationTime: fixedTime}, nil
}

func (s *stubAPI) GetPoll(_ context.Context, pollID int64) (poll.PollDetails, bool, error) {
	if s.err != nil || !s.found {
		return poll.PollDetails{}, false, s.err
	}
	return poll.PollDetails{
		Poll:         poll.Poll{ID: pollID, Title: "Best Logo", CreationTime: fixedTime},
		CandidateIDs: []int64{4, 5},
	}, true, nil
}

func (s *stubAPI) GetCandidateWithTally(_ context.Context, candidateID int64) (poll.CandidateTally, bool, error) {
	if s.err != nil || !s.found {
		return poll.CandidateTally{}, false, s.err
	}
	return poll.CandidateTally{
		Candidate: poll.Candidate{ID: candidateID, PollID: 1, URL: "https://example.com/a.png"},
		NumVotes:  7,
	}, true, nil
}

func setupRouter(api PollAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPollHandler(api)
	r.POST("/poll", h.CreatePoll)
	r.GET("/poll/:poll_id", h.GetPoll)
	r.POST("/candidate", h.CreateCandidate)
	r.GET("/candidate/:candidate_id", h.GetCandidate)
	r.POST("/candidate/:candidate_id/vote", h.CastVote)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePoll(t *testing.T) {
	r := setupRouter(&stubAPI{})

	w := serve(r, testutil.MakeRequest("POST", "/poll", map[string]string{"title": "Best Logo"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp httpdto.PollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Title != "Best Logo" || resp.ID != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.CreationTime != "2024-05-01T12:30:00Z" {
		t.Errorf("Expected RFC 3339 time, got %q", resp.CreationTime)
	}
	if resp.CandidateIDs == nil || len(resp.CandidateIDs) != 0 {
		t.Errorf("Expected empty candidateIds, got %v", resp.CandidateIDs)
	}
}

func TestCreatePoll_BadBody(t *testing.T) {
	r := setupRouter(&stubAPI{})

	req := httptest.NewRequest("POST", "/poll", nil)
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestErrorKindsToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   httpdto.ErrorCode
	}{
		{"validation", pixpoll_errors.Validation("CreateCandidate", "bad url"), http.StatusBadRequest, httpdto.CodeValidation},
		{"reference", pixpoll_errors.Reference("CreateCandidate", pixpoll_errors.ErrForeignKeyViolation), http.StatusUnprocessableEntity, httpdto.CodeReference},
		{"storage", pixpoll_errors.Storage("CreateCandidate", errors.New("connection refused")), http.StatusServiceUnavailable, httpdto.CodeStorageUnavailable},
		{"unclassified", errors.New("boom"), http.StatusServiceUnavailable, httpdto.CodeStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&stubAPI{err: tt.err})
			body := map[string]interface{}{"url": "https://example.com/a.png", "pollId": 1}
			w := serve(r, testutil.MakeRequest("POST", "/candidate", body, nil))
			testutil.AssertStatus(t, w, tt.status)

			var resp httpdto.ErrorBody
			testutil.AssertJSON(t, w, &resp)
			if resp.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, resp.Code)
			}
			if tt.status == http.StatusServiceUnavailable && resp.Message != "storage unavailable" {
				t.Errorf("Storage cause leaked to client: %q", resp.Message)
			}
		})
	}
}

func TestStorageFault_NotAttachedToContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	attached := -1
	r.Use(func(c *gin.Context) {
		c.Next()
		attached = len(c.Errors)
	})
	h := NewPollHandler(&stubAPI{err: pixpoll_errors.Storage("CreatePoll", errors.New("disk full"))})
	r.POST("/poll", h.CreatePoll)

	w := serve(r, testutil.MakeRequest("POST", "/poll", map[string]string{"title": "Best Logo"}, nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
	if attached != 0 {
		t.Errorf("Expected no gin errors for an already-logged storage fault, got %d", attached)
	}
}

func TestCreateCandidate_MissingPollID(t *testing.T) {
	api := &stubAPI{}
	r := setupRouter(api)

	w := serve(r, testutil.MakeRequest("POST", "/candidate", map[string]string{"url": "https://example.com/a.png"}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = serve(r, testutil.MakeRequest("POST", "/candidate", map[string]interface{}{"url": "https://example.com/a.png", "pollId": 0}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	if api.lastPollID != 0 {
		t.Errorf("Expected poll id 0 to reach the service, got %d", api.lastPollID)
	}
}

func TestGetPoll(t *testing.T) {
	r := setupRouter(&stubAPI{found: true})

	w := serve(r, testutil.MakeRequest("GET", "/poll/9", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp httpdto.PollResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ID != 9 || len(resp.CandidateIDs) != 2 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestGetPoll_NotFound(t *testing.T) {
	r := setupRouter(&stubAPI{found: false})

	w := serve(r, testutil.MakeRequest("GET", "/poll/9", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

func TestBadPathIDs(t *testing.T) {
	r := setupRouter(&stubAPI{found: true})

	for _, path := range []string{"/poll/abc", "/poll/1.5", "/candidate/x", "/candidate/99999999999999999999"} {
		w := serve(r, testutil.MakeRequest("GET", path, nil, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
	w := serve(r, testutil.MakeRequest("POST", "/candidate/x/vote", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetCandidate(t *testing.T) {
	r := setupRouter(&stubAPI{found: true})

	w := serve(r, testutil.MakeRequest("GET", "/candidate/5", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp httpdto.CandidateResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ID != 5 || resp.NumVotes != 7 || resp.URL != "https://example.com/a.png" {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestCastVote_UsesClientAddress(t *testing.T) {
	api := &stubAPI{}
	r := setupRouter(api)

	req := testutil.MakeRequest("POST", "/candidate/5/vote", map[string]string{"sourceAddress": "10.9.9.9"}, nil)
	req.RemoteAddr = "203.0.113.5:41234"
	w := serve(r, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	if api.lastSource != "203.0.113.5" {
		t.Errorf("Expected source 203.0.113.5, got %q", api.lastSource)
	}

	var resp httpdto.VoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.CandidateID != 5 || resp.ID != 3 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}
