package poll

import (
	"time"
)

// Poll represents the polls table
type Poll struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Title        string    `gorm:"not null"`
	CreationTime time.Time `gorm:"not null"`
}

// Candidate represents the candidates table
type Candidate struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	PollID int64  `gorm:"not null;index"`
	URL    string `gorm:"column:url;not null"`

	// Relationships
	Poll *Poll `gorm:"foreignKey:PollID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// Vote represents the votes table
type Vote struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	CandidateID   int64     `gorm:"not null;index"`
	SourceAddress string    `gorm:"not null"`
	CreationTime  time.Time `gorm:"not null"`

	// Relationships
	Candidate *Candidate `gorm:"foreignKey:CandidateID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// PollDetails is a Poll together with the ids of its candidates, ascending.
type PollDetails struct {
	Poll
	CandidateIDs []int64
}

// CandidateTally is a Candidate plus its vote count at read time.
type CandidateTally struct {
	Candidate
	NumVotes int64
}

func (Poll) TableName() string {
	return "polls"
}

func (Candidate) TableName() string {
	return "candidates"
}

func (Vote) TableName() string {
	return "votes"
}
