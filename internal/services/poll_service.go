package services

import (
	"context"
	"errors"
	"net/url"

	"pixpoll/internal/domain/poll"
	"pixpoll/internal/repository"
	pixpoll_errors "pixpoll/pkg/errors"
	"pixpoll/pkg/logger"

	"go.uber.org/zap"
)

// EntityCache holds Poll and Candidate rows, which never change once written.
// A nil result with a nil error is a miss.
type EntityCache interface {
	GetPoll(ctx context.Context, id int64) (*poll.Poll, error)
	SetPoll(ctx context.Context, p poll.Poll) error
	GetCandidate(ctx context.Context, id int64) (*poll.Candidate, error)
	SetCandidate(ctx context.Context, c poll.Candidate) error
}

// PollService runs each poll operation against the store and classifies the
// store's failures into error kinds.
type PollService struct {
	polls      repository.PollRepository
	candidates repository.CandidateRepository
	votes      repository.VoteRepository
	tally      *TallyEngine
	cache      EntityCache
	log        *logger.Logger
}

func NewPollService(
	polls repository.PollRepository,
	candidates repository.CandidateRepository,
	votes repository.VoteRepository,
	tally *TallyEngine,
	cache EntityCache,
	log *logger.Logger,
) *PollService {
	if tally == nil {
		tally = NewTallyEngine(votes)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &PollService{
		polls:      polls,
		candidates: candidates,
		votes:      votes,
		tally:      tally,
		cache:      cache,
		log:        log,
	}
}

func (s *PollService) CreatePoll(ctx context.Context, title string) (poll.Poll, error) {
	const op = "CreatePoll"
	if title == "" {
		return poll.Poll{}, pixpoll_errors.Validation(op, "title must not be empty")
	}

	p := poll.Poll{Title: title}
	if err := s.polls.Create(ctx, &p); err != nil {
		return poll.Poll{}, s.fail(ctx, op, err)
	}
	s.log.Info(ctx, "poll created", zap.Int64("poll_id", p.ID))
	return p, nil
}

func (s *PollService) CreateCandidate(ctx context.Context, pollID int64, rawURL string) (poll.Candidate, error) {
	const op = "CreateCandidate"
	if err := validateAbsoluteURL(rawURL); err != nil {
		return poll.Candidate{}, pixpoll_errors.Validation(op, err.Error())
	}

	// The poll's existence is checked by the foreign key, not here.
	c := poll.Candidate{PollID: pollID, URL: rawURL}
	if err := s.candidates.Create(ctx, &c); err != nil {
		return poll.Candidate{}, s.fail(ctx, op, err)
	}
	s.log.Info(ctx, "candidate created",
		zap.Int64("candidate_id", c.ID),
		zap.Int64("poll_id", c.PollID),
	)
	return c, nil
}

// CastVote records one vote. Repeating the call records another vote.
func (s *PollService) CastVote(ctx context.Context, candidateID int64, sourceAddress string) (poll.Vote, error) {
	const op = "CastVote"
	v := poll.Vote{CandidateID: candidateID, SourceAddress: sourceAddress}
	if err := s.votes.Create(ctx, &v); err != nil {
		return poll.Vote{}, s.fail(ctx, op, err)
	}
	s.log.Info(ctx, "vote recorded",
		zap.Int64("vote_id", v.ID),
		zap.Int64("candidate_id", v.CandidateID),
		zap.String("source", v.SourceAddress),
	)
	return v, nil
}

func (s *PollService) GetPoll(ctx context.Context, pollID int64) (poll.PollDetails, error) {
	const op = "GetPoll"
	p, err := s.loadPoll(ctx, pollID)
	if err != nil {
		return poll.PollDetails{}, s.fail(ctx, op, err)
	}
	ids, err := s.polls.ListCandidateIDs(ctx, pollID)
	if err != nil {
		return poll.PollDetails{}, s.fail(ctx, op, err)
	}
	return poll.PollDetails{Poll: p, CandidateIDs: ids}, nil
}

// GetCandidateWithTally returns the candidate with a vote count taken at read
// time.
func (s *PollService) GetCandidateWithTally(ctx context.Context, candidateID int64) (poll.CandidateTally, error) {
	const op = "GetCandidateWithTally"
	c, err := s.loadCandidate(ctx, candidateID)
	if err != nil {
		return poll.CandidateTally{}, s.fail(ctx, op, err)
	}
	n, err := s.tally.Count(ctx, c.ID)
	if err != nil {
		return poll.CandidateTally{}, s.fail(ctx, op, err)
	}
	return poll.CandidateTally{Candidate: c, NumVotes: n}, nil
}

func (s *PollService) loadPoll(ctx context.Context, id int64) (poll.Poll, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPoll(ctx, id)
		if err != nil {
			s.log.Warn(ctx, "poll cache read failed", zap.Int64("poll_id", id), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	p, err := s.polls.GetByID(ctx, id)
	if err != nil {
		return poll.Poll{}, err
	}
	if s.cache != nil {
		if err := s.cache.SetPoll(ctx, p); err != nil {
			s.log.Warn(ctx, "poll cache write failed", zap.Int64("poll_id", id), zap.Error(err))
		}
	}
	return p, nil
}

func (s *PollService) loadCandidate(ctx context.Context, id int64) (poll.Candidate, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCandidate(ctx, id)
		if err != nil {
			s.log.Warn(ctx, "candidate cache read failed", zap.Int64("candidate_id", id), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return poll.Candidate{}, err
	}
	if s.cache != nil {
		if err := s.cache.SetCandidate(ctx, c); err != nil {
			s.log.Warn(ctx, "candidate cache write failed", zap.Int64("candidate_id", id), zap.Error(err))
		}
	}
	return c, nil
}

// fail classifies a store error. Storage faults are logged here since they
// are the only kind the caller cannot fix.
func (s *PollService) fail(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, pixpoll_errors.ErrForeignKeyViolation):
		return pixpoll_errors.Reference(op, err)
	case errors.Is(err, pixpoll_errors.ErrNotFound):
		return pixpoll_errors.NotFound(op)
	default:
		s.log.Error(ctx, "storage failure", zap.String("op", op), zap.Error(err))
		return pixpoll_errors.Storage(op, err)
	}
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() {
		return errors.New("url must be absolute")
	}
	if u.Host == "" && u.Opaque == "" {
		return errors.New("url has no host")
	}
	return nil
}
