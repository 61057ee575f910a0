package repository

import (
	"context"

	"pixpoll/internal/domain/poll"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPollRepository struct {
	db  *gorm.DB
	now Clock
}

func NewPollRepository(db *gorm.DB) PollRepository {
	return &GormPollRepository{db: db, now: utcNow}
}

func (r *GormPollRepository) Create(ctx context.Context, p *poll.Poll) error {
	p.ID = 0
	p.CreationTime = r.now()
	res := r.db.WithContext(ctx).Omit(clause.Associations).Create(p)
	if res.Error != nil {
		return classifyWriteError(res.Error)
	}
	return nil
}

func (r *GormPollRepository) GetByID(ctx context.Context, id int64) (poll.Poll, error) {
	var p poll.Poll
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return poll.Poll{}, classifyReadError(err)
	}
	return p, nil
}

func (r *GormPollRepository) ListCandidateIDs(ctx context.Context, pollID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&poll.Candidate{}).
		Where("poll_id = ?", pollID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
