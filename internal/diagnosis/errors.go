package diagnosis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionConflict is returned by a ResultStore when the session id already
// owns a stored result.
var ErrSessionConflict = errors.New("diagnosis session already exists")

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid diagnosis submission: " + e.Reason }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidQuestionError lists the answer question ids that do not reference an
// active question.
type InvalidQuestionError struct {
	QuestionIDs []string
}

func (e *InvalidQuestionError) Error() string {
	return "unknown question ids: " + strings.Join(e.QuestionIDs, ", ")
}

type ConflictError struct {
	SessionID string
}

func (e *ConflictError) Error() string { return "diagnosis session " + e.SessionID + " already processed" }

func (e *ConflictError) Is(target error) bool { return target == ErrSessionConflict }

// PersistenceError wraps store failures other than the session conflict.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }
