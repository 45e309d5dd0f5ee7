package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/examcore-backend/internal/config"
	"github.com/stemsi/examcore-backend/internal/model"
	"github.com/stemsi/examcore-backend/internal/repository"
)

// examSummaryTTL bounds staleness of the cached exam display metadata.
const examSummaryTTL = 10 * time.Minute

// AttemptService handles attempt admission and results queries.
type AttemptService struct {
	attemptRepo  *repository.AttemptRepository
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo:  attemptRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "attempt_service").Logger(),
	}
}

// admitAttempt applies the admission policy for a new attempt. Checks run
// in a fixed order so each rejection maps to one specific error.
func admitAttempt(exam *model.Exam, now time.Time, inProgress *model.Attempt, priorAttempts int) error {
	if exam.Status != model.ExamStatusPublished {
		return ErrExamNotAvailable
	}
	if exam.AvailableFrom != nil && now.Before(*exam.AvailableFrom) {
		return ErrExamOutOfWindow
	}
	if exam.AvailableUntil != nil && now.After(*exam.AvailableUntil) {
		return ErrExamOutOfWindow
	}
	if inProgress != nil {
		return &AttemptInProgressError{AttemptID: inProgress.ID}
	}
	if !exam.AllowRetake && priorAttempts > 0 {
		return ErrRetakeNotAllowed
	}
	if exam.AllowRetake && priorAttempts >= exam.MaxAttempts {
		return ErrAttemptsExhausted
	}
	return nil
}

// StartAttempt admits a student into an exam and creates the attempt with
// its frozen question order snapshot.
func (s *AttemptService) StartAttempt(ctx context.Context, examID uuid.UUID, studentID int) (*model.StartAttemptResponse, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	questions, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list exam questions: %w", err)
	}

	order := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}
	if exam.ShuffleQuestions {
		order = shuffleQuestionOrder(order)
	}

	now := time.Now()
	attempt := &model.Attempt{
		ExamID:        examID,
		StudentID:     studentID,
		StartedAt:     now,
		QuestionOrder: order,
	}

	err = s.attemptRepo.Create(ctx, attempt, func(inProgress *model.Attempt, priorAttempts int) error {
		return admitAttempt(exam, now, inProgress, priorAttempts)
	})
	if err != nil {
		return nil, err
	}

	s.registerDeadline(ctx, attempt, exam)

	summary, err := s.getExamSummary(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam summary: %w", err)
	}

	return &model.StartAttemptResponse{Attempt: attempt, Exam: summary}, nil
}

// registerDeadline records the attempt's time limit in the expiry worker's
// sorted set. Failure is non-fatal: the worker's database sweep picks up
// anything missing from Redis.
func (s *AttemptService) registerDeadline(ctx context.Context, attempt *model.Attempt, exam *model.Exam) {
	deadline := attempt.Deadline(exam)
	err := s.rdb.ZAdd(ctx, config.CacheKey.AttemptDeadlinesKey(), redis.Z{
		Score:  float64(deadline.Unix()),
		Member: attempt.ID.String(),
	}).Err()
	if err != nil {
		s.log.Warn().Err(err).
			Str("attempt_id", attempt.ID.String()).
			Msg("Failed to register attempt deadline")
	}
}

// GetAttemptsForExam returns every attempt (any status) the student has
// made at an exam, ordered by attempt number.
func (s *AttemptService) GetAttemptsForExam(ctx context.Context, studentID int, examID uuid.UUID) ([]model.AttemptResult, error) {
	attempts, err := s.attemptRepo.ListByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if len(attempts) == 0 {
		return nil, ErrAttemptNotFound
	}

	results := make([]model.AttemptResult, len(attempts))
	for i := range attempts {
		results[i] = model.ResultOf(&attempts[i])
	}
	return results, nil
}

// GetAttemptExamSummary returns the exam display metadata for an attempt.
func (s *AttemptService) GetAttemptExamSummary(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.ExamSummary, error) {
	attempt, err := ownedAttempt(ctx, s.attemptRepo, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	summary, err := s.getExamSummary(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("get exam summary: %w", err)
	}
	return summary, nil
}

// GetAttemptState returns the remaining time and the already-answered
// question ids, so the client can recover after a page reload.
func (s *AttemptService) GetAttemptState(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.AttemptState, error) {
	attempt, err := ownedAttempt(ctx, s.attemptRepo, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	exam, err := s.examRepo.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	remaining := time.Duration(0)
	if attempt.Status == model.AttemptStatusInProgress {
		remaining = time.Until(attempt.Deadline(exam))
		if remaining < 0 {
			remaining = 0
		}
	}

	answered, err := s.answerRepo.ListAnsweredQuestionIDs(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answered questions: %w", err)
	}
	if answered == nil {
		answered = []uuid.UUID{}
	}

	return &model.AttemptState{
		AttemptID:         attempt.ID,
		Status:            attempt.Status,
		RemainingSeconds:  remaining.Seconds(),
		AnsweredQuestions: answered,
	}, nil
}

// ownedAttempt loads an attempt and verifies it belongs to the student.
// Foreign attempts are reported as not found, never as forbidden, to avoid
// leaking attempt ids across students.
func ownedAttempt(ctx context.Context, repo *repository.AttemptRepository, attemptID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := repo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// getExamSummary fetches exam display metadata, cache-aside through Redis.
func (s *AttemptService) getExamSummary(ctx context.Context, examID uuid.UUID) (*model.ExamSummary, error) {
	key := config.CacheKey.ExamSummaryKey(examID.String())

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		summary := &model.ExamSummary{}
		if err := json.Unmarshal([]byte(raw), summary); err == nil {
			return summary, nil
		}
		// Corrupt cache entry; fall through to the database.
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Redis summary lookup failed, falling back to database")
	}

	summary, err := s.examRepo.GetSummary(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if encoded, err := json.Marshal(summary); err == nil {
		if err := s.rdb.Set(ctx, key, encoded, examSummaryTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache exam summary")
		}
	}

	return summary, nil
}
