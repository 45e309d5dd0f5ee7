package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/examcore-backend/internal/model"
	"github.com/stemsi/examcore-backend/internal/repository"
)

// PaperService serves an attempt's question/answer set to the student.
type PaperService struct {
	attemptRepo  *repository.AttemptRepository
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
}

// NewPaperService creates a new PaperService.
func NewPaperService(
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
) *PaperService {
	return &PaperService{
		attemptRepo:  attemptRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
	}
}

// GetQuestions returns the attempt's questions in the frozen snapshot
// order, with answer options attached. Option order is either the stored
// order_index order or, when the exam shuffles answers, a permutation
// derived deterministically from (attemptID, questionID), so a page
// reload always shows the same paper. Correctness flags never appear in
// the output.
func (s *PaperService) GetQuestions(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.AttemptPaper, error) {
	attempt, err := ownedAttempt(ctx, s.attemptRepo, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	exam, err := s.examRepo.GetByID(ctx, attempt.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	questions, err := s.questionRepo.ListByExam(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("list exam questions: %w", err)
	}
	options, err := s.questionRepo.ListOptionsByExam(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("list answer options: %w", err)
	}

	byID := make(map[uuid.UUID]model.ExamQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	paper := &model.AttemptPaper{
		AttemptID: attempt.ID,
		ExamID:    attempt.ExamID,
		Questions: make([]model.QuestionForStudent, 0, len(attempt.QuestionOrder)),
	}

	// Presentation order comes from the attempt snapshot, never from a
	// fresh shuffle. A question missing from the catalog (removed after
	// the attempt started) is skipped rather than failing the whole paper.
	for _, qid := range attempt.QuestionOrder {
		q, ok := byID[qid]
		if !ok {
			continue
		}

		out := model.QuestionForStudent{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
		}

		for _, opt := range orderOptions(attempt.ID, q.ID, options[q.ID], exam.ShuffleAnswers) {
			out.Options = append(out.Options, model.OptionForStudent{
				ID:         opt.ID,
				OptionText: opt.OptionText,
			})
		}

		paper.Questions = append(paper.Questions, out)
	}

	return paper, nil
}
