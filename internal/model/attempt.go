package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt lifecycle states. Transitions are
// one-directional: IN_PROGRESS -> SUBMITTED -> GRADED.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusSubmitted  AttemptStatus = "SUBMITTED"
	AttemptStatusGraded     AttemptStatus = "GRADED"
)

// Attempt represents one student's run through an exam.
//
// QuestionOrder is an immutable snapshot captured at start time. It is the
// single source of truth for presentation order; it is never recomputed.
type Attempt struct {
	ID            uuid.UUID     `json:"id"`
	ExamID        uuid.UUID     `json:"exam_id"`
	StudentID     int           `json:"student_id"`
	AttemptNumber int           `json:"attempt_number"`
	Status        AttemptStatus `json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	SubmittedAt   *time.Time    `json:"submitted_at,omitempty"`
	Score         *float64      `json:"score,omitempty"`  // Fraction in [0,1], set at grading.
	Passed        *bool         `json:"passed,omitempty"` // Set at grading.
	QuestionOrder []uuid.UUID   `json:"question_order"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Deadline returns the instant the attempt's time limit runs out.
func (a *Attempt) Deadline(exam *Exam) time.Time {
	return a.StartedAt.Add(exam.Duration())
}

// HasQuestion reports whether a question is part of this attempt's frozen
// order, i.e. belongs to the exam the attempt was created from.
func (a *Attempt) HasQuestion(questionID uuid.UUID) bool {
	for _, id := range a.QuestionOrder {
		if id == questionID {
			return true
		}
	}
	return false
}

// StartAttemptResponse is returned after a successful attempt start.
type StartAttemptResponse struct {
	Attempt *Attempt     `json:"attempt"`
	Exam    *ExamSummary `json:"exam"`
}

// AttemptState is the recovery payload for a page reload: remaining time
// plus the questions that already have a stored answer.
type AttemptState struct {
	AttemptID         uuid.UUID     `json:"attempt_id"`
	Status            AttemptStatus `json:"status"`
	RemainingSeconds  float64       `json:"remaining_seconds"`
	AnsweredQuestions []uuid.UUID   `json:"answered_questions"`
}

// AttemptResult is a graded attempt summary.
type AttemptResult struct {
	AttemptID     uuid.UUID     `json:"attempt_id"`
	AttemptNumber int           `json:"attempt_number"`
	Status        AttemptStatus `json:"status"`
	Score         *float64      `json:"score,omitempty"`
	Passed        *bool         `json:"passed,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	SubmittedAt   *time.Time    `json:"submitted_at,omitempty"`
}

// ResultOf converts an attempt into its result view.
func ResultOf(a *Attempt) AttemptResult {
	return AttemptResult{
		AttemptID:     a.ID,
		AttemptNumber: a.AttemptNumber,
		Status:        a.Status,
		Score:         a.Score,
		Passed:        a.Passed,
		StartedAt:     a.StartedAt,
		SubmittedAt:   a.SubmittedAt,
	}
}
