package model

import (
	"github.com/google/uuid"
)

// QuestionType enumerates supported question types.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionTypeShortAnswer    QuestionType = "SHORT_ANSWER"
)

// AutoGradable reports whether answers of this type can be scored without
// manual review. Short answers are captured but held for review.
func (t QuestionType) AutoGradable() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeTrueFalse
}

// Question is a catalog question. CorrectOption data lives on the answer
// options and never leaves the server.
type Question struct {
	ID           uuid.UUID    `json:"id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
}

// AnswerOption is a selectable option for MCQ/TF questions.
type AnswerOption struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	OptionText string    `json:"option_text"`
	IsCorrect  bool      `json:"-"` // Never serialized to students.
	OrderIndex int       `json:"order_index"`
}

// ExamQuestion is a question as it belongs to a specific exam: the point
// value is per-exam, not a property of the question itself.
type ExamQuestion struct {
	Question
	ExamID   uuid.UUID `json:"exam_id"`
	Points   float64   `json:"points"`
	Position int       `json:"position"`
}

// OptionForStudent is an answer option as presented to a student, with the
// correctness flag stripped.
type OptionForStudent struct {
	ID         uuid.UUID `json:"id"`
	OptionText string    `json:"option_text"`
}

// QuestionForStudent is a question as presented during an attempt. Options
// are already in their final display order.
type QuestionForStudent struct {
	ID           uuid.UUID          `json:"id"`
	QuestionText string             `json:"question_text"`
	QuestionType QuestionType       `json:"question_type"`
	Points       float64            `json:"points"`
	Options      []OptionForStudent `json:"options,omitempty"`
}

// AttemptPaper is the full question/answer set served for an attempt, in
// the attempt's frozen question order.
type AttemptPaper struct {
	AttemptID uuid.UUID            `json:"attempt_id"`
	ExamID    uuid.UUID            `json:"exam_id"`
	Questions []QuestionForStudent `json:"questions"`
}
