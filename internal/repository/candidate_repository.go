package repository

import (
	"context"

	"pixpoll/internal/domain/poll"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormCandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &GormCandidateRepository{db: db}
}

func (r *GormCandidateRepository) Create(ctx context.Context, c *poll.Candidate) error {
	c.ID = 0
	res := r.db.WithContext(ctx).Omit(clause.Associations).Create(c)
	if res.Error != nil {
		return classifyWriteError(res.Error)
	}
	return nil
}

func (r *GormCandidateRepository) GetByID(ctx context.Context, id int64) (poll.Candidate, error) {
	var c poll.Candidate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		return poll.Candidate{}, classifyReadError(err)
	}
	return c, nil
}
