package limits

import (
	"errors"
	"fmt"
)

var (
	ErrTreeTooDeep     = errors.New("node hierarchy too deep")
	ErrGroupTooWide    = errors.New("group has too many children")
	ErrTooManyAttrs    = errors.New("node has too many attributes")
	ErrUndoPathTooLong = errors.New("undo/redo path too long")
)

// Violation is the rejection of an operation that would cross a hard limit.
// It unwraps to one of the sentinel errors above.
type Violation struct {
	Kind    error  // sentinel
	Subject string // path or name the operation targeted, may be empty
	Value   int64
	Limit   int64
}

func (v *Violation) Error() string {
	if v.Subject == "" {
		return fmt.Sprintf("%v: %d exceeds limit %d", v.Kind, v.Value, v.Limit)
	}
	return fmt.Sprintf("%v: %s: %d exceeds limit %d", v.Kind, v.Subject, v.Value, v.Limit)
}

func (v *Violation) Unwrap() error { return v.Kind }

func violation(kind error, subject string, value, limit int64) error {
	return &Violation{Kind: kind, Subject: subject, Value: value, Limit: limit}
}
