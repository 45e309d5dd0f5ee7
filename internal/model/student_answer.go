package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentAnswer is the stored answer for one question within one attempt.
// At most one row exists per (attempt_id, question_id); re-submission
// overwrites in place.
type StudentAnswer struct {
	ID               uuid.UUID  `json:"id"`
	AttemptID        uuid.UUID  `json:"attempt_id"`
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedAnswerID *uuid.UUID `json:"selected_answer_id,omitempty"` // MCQ/TF.
	AnswerText       *string    `json:"answer_text,omitempty"`        // SHORT_ANSWER.
	PointsEarned     *float64   `json:"points_earned,omitempty"`      // Set once, by grading.
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SubmitAnswerRequest is the payload for capturing a single answer.
// Exactly one of selected_answer_id / answer_text is expected depending on
// the question type; both optional so a student can clear a selection.
type SubmitAnswerRequest struct {
	QuestionID       uuid.UUID  `json:"question_id" binding:"required"`
	SelectedAnswerID *uuid.UUID `json:"selected_answer_id" binding:"omitempty"`
	AnswerText       *string    `json:"answer_text" binding:"omitempty,max=10000"`
}

// SubmitAnswerResponse confirms a capture without revealing any scoring.
type SubmitAnswerResponse struct {
	QuestionID uuid.UUID `json:"question_id"`
	Created    bool      `json:"created"` // false means an existing answer was overwritten
	SavedAt    time.Time `json:"saved_at"`
}
