package httpdto

import (
	"time"

	"pixpoll/internal/domain/poll"
)

// CreatePollRequest is used for POST /poll
type CreatePollRequest struct {
	Title string `json:"title"`
}

// PollResponse is returned by POST /poll and GET /poll/:poll_id
type PollResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	CreationTime string  `json:"creationTime"`
	CandidateIDs []int64 `json:"candidateIds"`
}

// CreateCandidateRequest is used for POST /candidate
type CreateCandidateRequest struct {
	URL    string `json:"url"`
	PollID *int64 `json:"pollId"`
}

// CandidateResponse is returned by POST /candidate and GET /candidate/:candidate_id
type CandidateResponse struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	PollID   int64  `json:"pollId"`
	NumVotes int64  `json:"numVotes"`
}

// VoteResponse is returned by /candidate/:candidate_id/vote
type VoteResponse struct {
	ID           int64  `json:"id"`
	CandidateID  int64  `json:"candidateId"`
	CreationTime string `json:"creationTime"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func NewPollResponse(p poll.Poll, candidateIDs []int64) PollResponse {
	if candidateIDs == nil {
		candidateIDs = []int64{}
	}
	return PollResponse{
		ID:           p.ID,
		Title:        p.Title,
		CreationTime: formatTime(p.CreationTime),
		CandidateIDs: candidateIDs,
	}
}

func NewCandidateResponse(c poll.Candidate, numVotes int64) CandidateResponse {
	return CandidateResponse{
		ID:       c.ID,
		URL:      c.URL,
		PollID:   c.PollID,
		NumVotes: numVotes,
	}
}

func NewVoteResponse(v poll.Vote) VoteResponse {
	return VoteResponse{
		ID:           v.ID,
		CandidateID:  v.CandidateID,
		CreationTime: formatTime(v.CreationTime),
	}
}
