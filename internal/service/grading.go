package service

import (
	"github.com/google/uuid"
	"github.com/stemsi/examcore-backend/internal/model"
)

// gradeSheet is the computed outcome of grading one attempt.
type gradeSheet struct {
	// answerPoints holds points earned per answered question. Only
	// questions with a stored answer row appear here, since only those
	// rows receive a points_earned update.
	answerPoints map[uuid.UUID]float64
	totalScore   float64
	maxScore     float64
	scorePercent float64
	passed       bool
}

// gradeAttempt scores an attempt.
//
// The denominator covers every question belonging to the exam, not only
// answered ones. An unanswered question counts at full weight, so a
// half-completed attempt cannot inflate its percentage. MCQ and TRUE_FALSE
// answers earn the question's full points when the selected option is
// correct, zero otherwise. Short answers are held for manual review and
// earn zero here. A zero-point exam grades to 0 without error and can
// never pass.
//
// correctOptions is keyed by question id first, so a selected option only
// counts when it belongs to the very question being graded. An option id
// lifted from a different question earns nothing, no matter how it is
// flagged there.
func gradeAttempt(
	questions []model.ExamQuestion,
	correctOptions map[uuid.UUID]map[uuid.UUID]bool,
	answers []model.StudentAnswer,
	passingScore float64,
) gradeSheet {
	byQuestion := make(map[uuid.UUID]*model.StudentAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	sheet := gradeSheet{answerPoints: make(map[uuid.UUID]float64, len(answers))}

	for _, q := range questions {
		sheet.maxScore += q.Points

		ans, ok := byQuestion[q.ID]
		if !ok {
			continue
		}

		earned := 0.0
		if q.QuestionType.AutoGradable() && ans.SelectedAnswerID != nil && correctOptions[q.ID][*ans.SelectedAnswerID] {
			earned = q.Points
		}

		sheet.answerPoints[q.ID] = earned
		sheet.totalScore += earned
	}

	if sheet.maxScore > 0 {
		sheet.scorePercent = sheet.totalScore / sheet.maxScore
	}
	sheet.passed = sheet.scorePercent >= passingScore && sheet.maxScore > 0

	return sheet
}
