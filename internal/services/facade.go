package services

import (
	"context"

	"pixpoll/internal/domain/poll"
	pixpoll_errors "pixpoll/pkg/errors"
)

// Facade is what transports call. Each method is one PollService call; a
// not-found read comes back as found=false with a nil error.
type Facade struct {
	svc *PollService
}

func NewFacade(svc *PollService) *Facade {
	return &Facade{svc: svc}
}

func (f *Facade) CreatePoll(ctx context.Context, title string) (poll.Poll, error) {
	return f.svc.CreatePoll(ctx, title)
}

func (f *Facade) CreateCandidate(ctx context.Context, pollID int64, url string) (poll.Candidate, error) {
	return f.svc.CreateCandidate(ctx, pollID, url)
}

func (f *Facade) CastVote(ctx context.Context, candidateID int64, sourceAddress string) (poll.Vote, error) {
	return f.svc.CastVote(ctx, candidateID, sourceAddress)
}

func (f *Facade) GetPoll(ctx context.Context, pollID int64) (poll.PollDetails, bool, error) {
	p, err := f.svc.GetPoll(ctx, pollID)
	return absentIfNotFound(p, err)
}

func (f *Facade) GetCandidateWithTally(ctx context.Context, candidateID int64) (poll.CandidateTally, bool, error) {
	c, err := f.svc.GetCandidateWithTally(ctx, candidateID)
	return absentIfNotFound(c, err)
}

func absentIfNotFound[T any](v T, err error) (T, bool, error) {
	if err == nil {
		return v, true, nil
	}
	var zero T
	if pixpoll_errors.Is(err, pixpoll_errors.KindNotFound) {
		return zero, false, nil
	}
	return zero, false, err
}
