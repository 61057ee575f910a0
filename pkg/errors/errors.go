package pixpoll_errors

import (
	"errors"
	"fmt"
)

// Store-level sentinels. The repository package returns these and the
// service layer classifies them into a Kind.
var (
	ErrNotFound            = errors.New("not found")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrInvalidInput        = errors.New("invalid input")
)

// Kind is the closed set of failure classes a caller can observe.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindReference
	KindNotFound
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindReference:
		return "reference"
	case KindNotFound:
		return "not_found"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "unknown"
	}
}

// Outcome is how a Kind should be presented by any transport.
type Outcome int

const (
	OutcomeClientFault Outcome = iota + 1
	OutcomeAbsent
	OutcomeServerFault
)

func (k Kind) Outcome() Outcome {
	switch k {
	case KindValidation, KindReference:
		return OutcomeClientFault
	case KindNotFound:
		return OutcomeAbsent
	default:
		return OutcomeServerFault
	}
}

// Error carries a Kind, the operation that failed and the originating cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("%w: %s", ErrInvalidInput, msg)}
}

func Reference(op string, err error) *Error {
	return &Error{Kind: KindReference, Op: op, Err: err}
}

func NotFound(op string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: ErrNotFound}
}

func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Op: op, Err: err}
}

// KindOf reports the Kind of err. Errors that were never classified are
// treated as storage faults.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageUnavailable
}

// Is reports whether err was classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
