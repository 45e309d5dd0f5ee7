package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Admission and lifecycle errors. Handlers map these to typed response
// codes; none of them are retried automatically.
var (
	ErrExamNotFound        = errors.New("exam not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrExamNotAvailable    = errors.New("exam is not available")
	ErrExamOutOfWindow     = errors.New("exam is outside its availability window")
	ErrRetakeNotAllowed    = errors.New("exam does not allow retakes")
	ErrAttemptsExhausted   = errors.New("attempt limit reached for this exam")
	ErrAttemptNotActive    = errors.New("attempt is not active")
	ErrQuestionNotInExam   = errors.New("question does not belong to the attempted exam")
	ErrOptionNotInQuestion = errors.New("selected option does not belong to the question")
)

// AttemptInProgressError rejects a duplicate start while carrying the
// existing attempt's id, so the client can resume instead of duplicating.
type AttemptInProgressError struct {
	AttemptID uuid.UUID
}

func (e *AttemptInProgressError) Error() string {
	return fmt.Sprintf("attempt %s already in progress", e.AttemptID)
}
