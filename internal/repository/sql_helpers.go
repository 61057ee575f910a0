package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pixpoll_errors "pixpoll/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgForeignKeyViolation = "23503"

// Clock supplies creation timestamps. Timestamps are a store concern so the
// service layer never sets them.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	// modernc sqlite does not always go through gorm's translator
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// classifyWriteError maps driver errors on insert to store sentinels. Errors
// that are not constraint failures are returned untouched.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", pixpoll_errors.ErrForeignKeyViolation, err)
	}
	return err
}

func classifyReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pixpoll_errors.ErrNotFound
	}
	return err
}

// countRelated counts the rows of child whose fkColumn equals parentID. The
// count sees every row committed before the statement starts.
func countRelated(ctx context.Context, db *gorm.DB, child interface{}, fkColumn string, parentID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(child).
		Where(fmt.Sprintf("%s = ?", fkColumn), parentID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
