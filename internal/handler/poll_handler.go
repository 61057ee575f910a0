package handler

import (
	"context"
	"net/http"
	"strconv"

	"pixpoll/internal/domain/poll"
	"pixpoll/internal/transport/httpdto"
	pixpoll_errors "pixpoll/pkg/errors"

	"github.com/gin-gonic/gin"
)

// PollAPI is the set of poll operations the handler serves.
type PollAPI interface {
	CreatePoll(ctx context.Context, title string) (poll.Poll, error)
	CreateCandidate(ctx context.Context, pollID int64, url string) (poll.Candidate, error)
	CastVote(ctx context.Context, candidateID int64, sourceAddress string) (poll.Vote, error)
	GetPoll(ctx context.Context, pollID int64) (poll.PollDetails, bool, error)
	GetCandidateWithTally(ctx context.Context, candidateID int64) (poll.CandidateTally, bool, error)
}

type PollHandler struct {
	api PollAPI
}

func NewPollHandler(api PollAPI) *PollHandler {
	return &PollHandler{api: api}
}

func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req httpdto.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorBody(httpdto.CodeInvalidRequest, "invalid request"))
		return
	}
	p, err := h.api.CreatePoll(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewPollResponse(p, nil))
}

func (h *PollHandler) GetPoll(c *gin.Context) {
	id, ok := pathID(c, "poll_id")
	if !ok {
		return
	}
	p, found, err := h.api.GetPoll(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewPollResponse(p.Poll, p.CandidateIDs))
}

func (h *PollHandler) CreateCandidate(c *gin.Context) {
	var req httpdto.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PollID == nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorBody(httpdto.CodeInvalidRequest, "invalid request"))
		return
	}
	cand, err := h.api.CreateCandidate(c.Request.Context(), *req.PollID, req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewCandidateResponse(cand, 0))
}

func (h *PollHandler) GetCandidate(c *gin.Context) {
	id, ok := pathID(c, "candidate_id")
	if !ok {
		return
	}
	cand, found, err := h.api.GetCandidateWithTally(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewCandidateResponse(cand.Candidate, cand.NumVotes))
}

// CastVote records a vote from the caller's address. The body is ignored.
func (h *PollHandler) CastVote(c *gin.Context) {
	id, ok := pathID(c, "candidate_id")
	if !ok {
		return
	}
	v, err := h.api.CastVote(c.Request.Context(), id, c.ClientIP())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewVoteResponse(v))
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorBody(httpdto.CodeInvalidRequest, "invalid "+name))
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	kind := pixpoll_errors.KindOf(err)
	switch kind {
	case pixpoll_errors.KindValidation:
		c.JSON(http.StatusBadRequest, httpdto.NewErrorBody(httpdto.CodeValidation, err.Error()))
	case pixpoll_errors.KindReference:
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorBody(httpdto.CodeReference, err.Error()))
	case pixpoll_errors.KindNotFound:
		c.Status(http.StatusNotFound)
	default:
		// PollService already logged the cause; the client only learns the kind.
		c.JSON(http.StatusServiceUnavailable, httpdto.StorageUnavailableBody)
	}
}
