package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stemsi/examcore-backend/internal/model"
)

type qSpec struct {
	id     uuid.UUID
	qType  model.QuestionType
	points float64
}

func mcq(points float64) qSpec {
	return qSpec{id: uuid.New(), qType: model.QuestionTypeMultipleChoice, points: points}
}

func examQuestions(specs ...qSpec) []model.ExamQuestion {
	questions := make([]model.ExamQuestion, len(specs))
	for i, s := range specs {
		questions[i] = model.ExamQuestion{
			Question: model.Question{ID: s.id, QuestionType: s.qType},
			Points:   s.points,
		}
	}
	return questions
}

func answerFor(q qSpec, optionID uuid.UUID) model.StudentAnswer {
	return model.StudentAnswer{QuestionID: q.id, SelectedAnswerID: &optionID}
}

func TestGradeAttempt_AllCorrect(t *testing.T) {
	q1, q2 := mcq(1), mcq(1)
	right1, right2 := uuid.New(), uuid.New()
	correct := map[uuid.UUID]map[uuid.UUID]bool{
		q1.id: {right1: true},
		q2.id: {right2: true},
	}

	sheet := gradeAttempt(
		examQuestions(q1, q2),
		correct,
		[]model.StudentAnswer{answerFor(q1, right1), answerFor(q2, right2)},
		1.0,
	)

	if sheet.scorePercent != 1.0 {
		t.Errorf("scorePercent = %v, want 1.0", sheet.scorePercent)
	}
	if !sheet.passed {
		t.Error("passed = false, want true")
	}
	if sheet.answerPoints[q1.id] != 1 || sheet.answerPoints[q2.id] != 1 {
		t.Errorf("answerPoints = %v, want 1 point each", sheet.answerPoints)
	}
}

func TestGradeAttempt_OneRightOneWrong(t *testing.T) {
	// Two 1-point questions, passing score 0.5: one correct and one wrong
	// answer scores exactly 0.5 and passes.
	q1, q2 := mcq(1), mcq(1)
	right1, right2, wrong2 := uuid.New(), uuid.New(), uuid.New()
	correct := map[uuid.UUID]map[uuid.UUID]bool{
		q1.id: {right1: true},
		q2.id: {right2: true, wrong2: false},
	}

	sheet := gradeAttempt(
		examQuestions(q1, q2),
		correct,
		[]model.StudentAnswer{answerFor(q1, right1), answerFor(q2, wrong2)},
		0.5,
	)

	if sheet.scorePercent != 0.5 {
		t.Errorf("scorePercent = %v, want 0.5", sheet.scorePercent)
	}
	if !sheet.passed {
		t.Error("passed = false, want true")
	}
	if sheet.answerPoints[q2.id] != 0 {
		t.Errorf("wrong answer earned %v points, want 0", sheet.answerPoints[q2.id])
	}
}

func TestGradeAttempt_UnansweredCountsInDenominator(t *testing.T) {
	// One correct answer out of two questions is 0.5, not 1.0: the
	// unanswered question keeps its full weight in the denominator.
	q1, q2 := mcq(1), mcq(1)
	right1 := uuid.New()
	correct := map[uuid.UUID]map[uuid.UUID]bool{q1.id: {right1: true}}

	sheet := gradeAttempt(
		examQuestions(q1, q2),
		correct,
		[]model.StudentAnswer{answerFor(q1, right1)},
		0.5,
	)

	if sheet.scorePercent != 0.5 {
		t.Errorf("scorePercent = %v, want 0.5", sheet.scorePercent)
	}
	if sheet.maxScore != 2 {
		t.Errorf("maxScore = %v, want 2", sheet.maxScore)
	}
	if _, ok := sheet.answerPoints[q2.id]; ok {
		t.Error("unanswered question must not appear in answerPoints")
	}
}

func TestGradeAttempt_NoAnswers(t *testing.T) {
	sheet := gradeAttempt(examQuestions(mcq(1), mcq(3)), nil, nil, 0.4)

	if sheet.scorePercent != 0 {
		t.Errorf("scorePercent = %v, want 0", sheet.scorePercent)
	}
	if sheet.passed {
		t.Error("passed = true, want false")
	}
	if len(sheet.answerPoints) != 0 {
		t.Errorf("answerPoints = %v, want empty", sheet.answerPoints)
	}
}

func TestGradeAttempt_ZeroMaxScore(t *testing.T) {
	// An exam with no questions (or all zero-point) grades to 0 without a
	// division error and can never pass, even with passing score 0.
	for _, questions := range [][]model.ExamQuestion{nil, examQuestions(qSpec{id: uuid.New(), qType: model.QuestionTypeMultipleChoice, points: 0})} {
		sheet := gradeAttempt(questions, nil, nil, 0)
		if sheet.scorePercent != 0 {
			t.Errorf("scorePercent = %v, want 0", sheet.scorePercent)
		}
		if sheet.passed {
			t.Error("passed = true on zero-point exam, want false")
		}
	}
}

func TestGradeAttempt_TrueFalse(t *testing.T) {
	q := qSpec{id: uuid.New(), qType: model.QuestionTypeTrueFalse, points: 2}
	right := uuid.New()
	correct := map[uuid.UUID]map[uuid.UUID]bool{q.id: {right: true}}

	sheet := gradeAttempt(examQuestions(q), correct, []model.StudentAnswer{answerFor(q, right)}, 0.5)

	if sheet.totalScore != 2 {
		t.Errorf("totalScore = %v, want 2", sheet.totalScore)
	}
	if !sheet.passed {
		t.Error("passed = false, want true")
	}
}

func TestGradeAttempt_ShortAnswerZeroCredit(t *testing.T) {
	// Short answers are captured but held for manual review: they earn
	// zero here while still receiving a points_earned row.
	q := qSpec{id: uuid.New(), qType: model.QuestionTypeShortAnswer, points: 5}
	text := "the mitochondria"

	sheet := gradeAttempt(
		examQuestions(q),
		nil,
		[]model.StudentAnswer{{QuestionID: q.id, AnswerText: &text}},
		0.5,
	)

	if got, ok := sheet.answerPoints[q.id]; !ok || got != 0 {
		t.Errorf("short answer points = %v (present=%t), want 0 points recorded", got, ok)
	}
	if sheet.maxScore != 5 {
		t.Errorf("maxScore = %v, want 5", sheet.maxScore)
	}
	if sheet.passed {
		t.Error("passed = true, want false")
	}
}

func TestGradeAttempt_WeightedPoints(t *testing.T) {
	// Point values are per-exam: a 3-point and a 1-point question with
	// only the 3-pointer correct yields 0.75.
	q1, q2 := mcq(3), mcq(1)
	right1 := uuid.New()
	correct := map[uuid.UUID]map[uuid.UUID]bool{q1.id: {right1: true}}

	sheet := gradeAttempt(
		examQuestions(q1, q2),
		correct,
		[]model.StudentAnswer{answerFor(q1, right1)},
		0.8,
	)

	if sheet.scorePercent != 0.75 {
		t.Errorf("scorePercent = %v, want 0.75", sheet.scorePercent)
	}
	if sheet.passed {
		t.Error("passed = true, want false with passing score 0.8")
	}
}

func TestGradeAttempt_PassingBoundary(t *testing.T) {
	// A score exactly at the passing threshold passes.
	q1, q2 := mcq(1), mcq(1)
	right1 := uuid.New()
	correct := map[uuid.UUID]map[uuid.UUID]bool{q1.id: {right1: true}}

	tests := []struct {
		name         string
		passingScore float64
		wantPassed   bool
	}{
		{name: "exactly at threshold", passingScore: 0.5, wantPassed: true},
		{name: "just above threshold", passingScore: 0.51, wantPassed: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sheet := gradeAttempt(
				examQuestions(q1, q2),
				correct,
				[]model.StudentAnswer{answerFor(q1, right1)},
				tc.passingScore,
			)
			if sheet.passed != tc.wantPassed {
				t.Errorf("passed = %t, want %t", sheet.passed, tc.wantPassed)
			}
		})
	}
}

func TestGradeAttempt_CrossQuestionOptionEarnsNothing(t *testing.T) {
	// Submitting one question's correct option id as the answer to a
	// different question must earn nothing on that question, or a student
	// could read the correct option off an easy question and replay its id
	// everywhere.
	hard, easy := mcq(5), mcq(1)
	hardRight, easyRight := uuid.New(), uuid.New()
	correct := map[uuid.UUID]map[uuid.UUID]bool{
		hard.id: {hardRight: true},
		easy.id: {easyRight: true},
	}

	sheet := gradeAttempt(
		examQuestions(hard, easy),
		correct,
		[]model.StudentAnswer{answerFor(easy, easyRight), answerFor(hard, easyRight)},
		0.5,
	)

	if sheet.answerPoints[hard.id] != 0 {
		t.Errorf("hard question earned %v points via another question's option, want 0",
			sheet.answerPoints[hard.id])
	}
	if sheet.totalScore != 1 {
		t.Errorf("totalScore = %v, want 1", sheet.totalScore)
	}
	if sheet.passed {
		t.Errorf("passed = true (score %v) via cross-question option, want false", sheet.scorePercent)
	}
}

func TestGradeAttempt_ClearedSelection(t *testing.T) {
	// An answer row with a nil selection (student cleared their choice)
	// earns zero, same as unanswered, but still gets its row updated.
	q := mcq(1)
	sheet := gradeAttempt(
		examQuestions(q),
		map[uuid.UUID]map[uuid.UUID]bool{q.id: {uuid.New(): true}},
		[]model.StudentAnswer{{QuestionID: q.id}},
		0.5,
	)

	if got, ok := sheet.answerPoints[q.id]; !ok || got != 0 {
		t.Errorf("cleared answer points = %v (present=%t), want 0 recorded", got, ok)
	}
}
