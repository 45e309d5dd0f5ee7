package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/examcore-backend/internal/model"
	"github.com/stemsi/examcore-backend/internal/repository"
)

// AnswerService captures per-question answers during an active attempt.
type AnswerService struct {
	attemptRepo  *repository.AttemptRepository
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
}

// NewAnswerService creates a new AnswerService.
func NewAnswerService(
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
) *AnswerService {
	return &AnswerService{
		attemptRepo:  attemptRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

// SubmitAnswer upserts the student's answer for one question. Repeated
// submissions overwrite in place, last write wins. No score is computed or
// revealed here.
func (s *AnswerService) SubmitAnswer(ctx context.Context, attemptID uuid.UUID, studentID int, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResponse, error) {
	attempt, err := ownedAttempt(ctx, s.attemptRepo, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	if attempt.Status != model.AttemptStatusInProgress {
		return nil, ErrAttemptNotActive
	}

	exam, err := s.examRepo.GetByID(ctx, attempt.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	// Lazy time-limit enforcement: an attempt past its deadline no longer
	// accepts writes. The expiry worker grades it shortly after.
	if time.Now().After(attempt.Deadline(exam)) {
		return nil, ErrAttemptNotActive
	}

	// Reject answers for questions outside the attempt's frozen order,
	// so an answer for one exam can never be injected into another.
	if !attempt.HasQuestion(req.QuestionID) {
		return nil, ErrQuestionNotInExam
	}

	// Same rule one level down: a selected option must be one of the
	// question's own options, or another question's correct option could
	// be replayed here.
	if req.SelectedAnswerID != nil {
		belongs, err := s.questionRepo.OptionBelongsToQuestion(ctx, *req.SelectedAnswerID, req.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("check option ownership: %w", err)
		}
		if !belongs {
			return nil, ErrOptionNotInQuestion
		}
	}

	ans := &model.StudentAnswer{
		AttemptID:        attemptID,
		QuestionID:       req.QuestionID,
		SelectedAnswerID: req.SelectedAnswerID,
		AnswerText:       req.AnswerText,
	}
	created, err := s.answerRepo.Upsert(ctx, ans)
	if err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	return &model.SubmitAnswerResponse{
		QuestionID: ans.QuestionID,
		Created:    created,
		SavedAt:    ans.UpdatedAt,
	}, nil
}
