package repository

import (
	"context"

	"pixpoll/internal/domain/poll"
)

// PollRepository stores polls. Create assigns the id and creation time.
type PollRepository interface {
	Create(ctx context.Context, p *poll.Poll) error
	GetByID(ctx context.Context, id int64) (poll.Poll, error)
	ListCandidateIDs(ctx context.Context, pollID int64) ([]int64, error)
}

// CandidateRepository stores candidates. Create fails with
// ErrForeignKeyViolation when the poll does not exist.
type CandidateRepository interface {
	Create(ctx context.Context, c *poll.Candidate) error
	GetByID(ctx context.Context, id int64) (poll.Candidate, error)
}

// VoteRepository stores votes. Create fails with ErrForeignKeyViolation when
// the candidate does not exist.
type VoteRepository interface {
	Create(ctx context.Context, v *poll.Vote) error
	CountByCandidate(ctx context.Context, candidateID int64) (int64, error)
}
