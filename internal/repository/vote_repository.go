package repository

import (
	"context"

	"pixpoll/internal/domain/poll"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormVoteRepository struct {
	db  *gorm.DB
	now Clock
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &GormVoteRepository{db: db, now: utcNow}
}

// Create inserts a single row. Concurrent callers need no coordination: the
// insert is atomic and the candidate check is the foreign key.
func (r *GormVoteRepository) Create(ctx context.Context, v *poll.Vote) error {
	v.ID = 0
	v.CreationTime = r.now()
	res := r.db.WithContext(ctx).Omit(clause.Associations).Create(v)
	if res.Error != nil {
		return classifyWriteError(res.Error)
	}
	return nil
}

func (r *GormVoteRepository) CountByCandidate(ctx context.Context, candidateID int64) (int64, error) {
	return countRelated(ctx, r.db, &poll.Vote{}, "candidate_id", candidateID)
}
