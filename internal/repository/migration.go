package repository

import (
	"fmt"

	"pixpoll/internal/domain/poll"

	"gorm.io/gorm"
)

// Tables in dependency order, parents first.
var Tables = []string{"polls", "candidates", "votes"}

// InitSchema creates the polls, candidates and votes tables together with the
// candidate->poll and vote->candidate foreign keys. AutoMigrate also adds a
// missing constraint to a table that already exists, so this is safe to call
// on every start.
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&poll.Poll{},
		&poll.Candidate{},
		&poll.Vote{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	return nil
}

// DropSchema drops all tables, children first.
func DropSchema(db *gorm.DB) error {
	for _, model := range []interface{}{&poll.Vote{}, &poll.Candidate{}, &poll.Poll{}} {
		if err := db.Migrator().DropTable(model); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}
