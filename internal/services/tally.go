package services

import (
	"context"

	"pixpoll/internal/repository"
)

// TallyEngine counts votes at read time. There is no stored counter: the
// result is the number of vote rows committed when the count runs, so votes
// still in flight may be missed by one read but never by the next.
type TallyEngine struct {
	votes repository.VoteRepository
}

func NewTallyEngine(votes repository.VoteRepository) *TallyEngine {
	return &TallyEngine{votes: votes}
}

func (e *TallyEngine) Count(ctx context.Context, candidateID int64) (int64, error) {
	return e.votes.CountByCandidate(ctx, candidateID)
}
