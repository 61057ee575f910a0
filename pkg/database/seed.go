package database

import (
	"context"
	"fmt"
	"log"

	"pixpoll/internal/domain/poll"
	"pixpoll/internal/repository"

	"gorm.io/gorm"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	PollTitle      string
	CandidateURLs  []string
	VotesPerChoice int
	SourceAddress  string
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		PollTitle: "Best Logo",
		CandidateURLs: []string{
			"https://example.com/a.png",
			"https://example.com/b.png",
		},
		VotesPerChoice: 3,
		SourceAddress:  "127.0.0.1",
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Poll       poll.Poll
	Candidates []poll.Candidate
	Votes      int
}

// Seed writes one poll, its candidates and some votes through the
// repositories, so generated ids and timestamps follow the normal path.
func Seed(ctx context.Context, db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	polls := repository.NewPollRepository(db)
	candidates := repository.NewCandidateRepository(db)
	votes := repository.NewVoteRepository(db)

	log.Println("Starting database seeding...")

	result := &SeedResult{Poll: poll.Poll{Title: cfg.PollTitle}}
	if err := polls.Create(ctx, &result.Poll); err != nil {
		return nil, fmt.Errorf("failed to seed poll: %w", err)
	}
	log.Printf("Poll seeded: %d %q", result.Poll.ID, result.Poll.Title)

	for i, url := range cfg.CandidateURLs {
		c := poll.Candidate{PollID: result.Poll.ID, URL: url}
		if err := candidates.Create(ctx, &c); err != nil {
			return nil, fmt.Errorf("failed to seed candidate %s: %w", url, err)
		}
		result.Candidates = append(result.Candidates, c)

		// Uneven counts so the tallies are distinguishable.
		n := cfg.VotesPerChoice - i
		for j := 0; j < n; j++ {
			v := poll.Vote{CandidateID: c.ID, SourceAddress: cfg.SourceAddress}
			if err := votes.Create(ctx, &v); err != nil {
				return nil, fmt.Errorf("failed to seed vote: %w", err)
			}
			result.Votes++
		}
	}

	log.Println("Database seeding completed successfully!")
	return result, nil
}

// SeedDevelopment is a convenience function for development environment
func SeedDevelopment(ctx context.Context, db *gorm.DB) (*SeedResult, error) {
	return Seed(ctx, db, DefaultSeedConfig())
}
