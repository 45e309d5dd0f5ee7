package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/examcore-backend/internal/config"
	"github.com/stemsi/examcore-backend/internal/model"
	"github.com/stemsi/examcore-backend/internal/repository"
)

// GradingService finalizes attempts. It works on the pool directly because
// the submit transition and the grade write must commit as one transaction
// spanning attempts, student_answers and the catalog tables.
type GradingService struct {
	pool        *pgxpool.Pool
	attemptRepo *repository.AttemptRepository
	examRepo    *repository.ExamRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewGradingService creates a new GradingService.
func NewGradingService(pool *pgxpool.Pool, attemptRepo *repository.AttemptRepository, examRepo *repository.ExamRepository, rdb *redis.Client, log zerolog.Logger) *GradingService {
	return &GradingService{
		pool:        pool,
		attemptRepo: attemptRepo,
		examRepo:    examRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "grading_service").Logger(),
	}
}

// SubmitAttempt finalizes a student's own attempt and returns the graded
// result. Exactly one of any concurrent submits wins the IN_PROGRESS claim;
// the rest observe ErrAttemptNotActive.
//
// An attempt past its deadline is rejected the same way SubmitAnswer
// rejects late writes; the expiry worker grades it shortly after.
func (s *GradingService) SubmitAttempt(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.AttemptResult, error) {
	attempt, err := ownedAttempt(ctx, s.attemptRepo, attemptID, studentID)
	if err != nil {
		return nil, err
	}

	if attempt.Status == model.AttemptStatusInProgress {
		exam, err := s.examRepo.GetByID(ctx, attempt.ExamID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrExamNotFound
			}
			return nil, fmt.Errorf("get exam: %w", err)
		}
		if time.Now().After(attempt.Deadline(exam)) {
			return nil, ErrAttemptNotActive
		}
	}

	return s.grade(ctx, attemptID)
}

// SubmitExpired finalizes an attempt whose time limit ran out. Called by
// the expiry worker; returns ErrAttemptNotActive when the attempt was
// already submitted, which callers treat as benign.
func (s *GradingService) SubmitExpired(ctx context.Context, attemptID uuid.UUID) (*model.AttemptResult, error) {
	return s.grade(ctx, attemptID)
}

// grade runs the full submit-and-grade transaction:
//
//  1. claim the IN_PROGRESS row, transitioning it to SUBMITTED;
//  2. load the exam's complete question list with per-exam points, the
//     option correctness flags and the stored answers;
//  3. score via gradeAttempt (denominator = all exam questions);
//  4. persist per-answer points (bulk UNNEST update) and the final
//     GRADED attempt row.
//
// Everything commits together or not at all, so readers never observe an
// attempt stuck in SUBMITTED without a score.
func (s *GradingService) grade(ctx context.Context, attemptID uuid.UUID) (*model.AttemptResult, error) {
	var result *model.AttemptResult

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		now := time.Now()

		var examID uuid.UUID
		err := tx.QueryRow(ctx,
			`UPDATE attempts
			 SET status = $2, submitted_at = $3, updated_at = $3
			 WHERE id = $1 AND status = $4
			 RETURNING exam_id`,
			attemptID, model.AttemptStatusSubmitted, now, model.AttemptStatusInProgress,
		).Scan(&examID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAttemptNotActive
			}
			return fmt.Errorf("claim attempt: %w", err)
		}

		var passingScore float64
		if err := tx.QueryRow(ctx,
			`SELECT passing_score FROM exams WHERE id = $1`, examID).Scan(&passingScore); err != nil {
			return fmt.Errorf("get passing score: %w", err)
		}

		questions, err := loadExamQuestions(ctx, tx, examID)
		if err != nil {
			return fmt.Errorf("load exam questions: %w", err)
		}
		correctOptions, err := loadOptionFlags(ctx, tx, examID)
		if err != nil {
			return fmt.Errorf("load option flags: %w", err)
		}
		answers, err := loadAnswers(ctx, tx, attemptID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}

		sheet := gradeAttempt(questions, correctOptions, answers, passingScore)

		if len(sheet.answerPoints) > 0 {
			questionIDs := make([]uuid.UUID, 0, len(sheet.answerPoints))
			points := make([]float64, 0, len(sheet.answerPoints))
			for qid, p := range sheet.answerPoints {
				questionIDs = append(questionIDs, qid)
				points = append(points, p)
			}

			if _, err := tx.Exec(ctx,
				`UPDATE student_answers AS sa
				 SET points_earned = t.points, updated_at = $2
				 FROM (
					SELECT u.question_id, u.points
					FROM UNNEST($3::uuid[], $4::float8[]) AS u (question_id, points)
				 ) AS t
				 WHERE sa.attempt_id = $1 AND sa.question_id = t.question_id`,
				attemptID, now, questionIDs, points); err != nil {
				return fmt.Errorf("persist answer points: %w", err)
			}
		}

		graded := &model.AttemptResult{}
		err = tx.QueryRow(ctx,
			`UPDATE attempts
			 SET status = $2, score = $3, passed = $4, updated_at = $5
			 WHERE id = $1
			 RETURNING id, attempt_number, status, score, passed, started_at, submitted_at`,
			attemptID, model.AttemptStatusGraded, sheet.scorePercent, sheet.passed, now,
		).Scan(&graded.AttemptID, &graded.AttemptNumber, &graded.Status,
			&graded.Score, &graded.Passed, &graded.StartedAt, &graded.SubmittedAt)
		if err != nil {
			return fmt.Errorf("finalize attempt: %w", err)
		}

		result = graded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.removeDeadline(ctx, attemptID)

	s.log.Info().
		Str("attempt_id", attemptID.String()).
		Float64("score", *result.Score).
		Bool("passed", *result.Passed).
		Msg("Attempt graded")

	return result, nil
}

// removeDeadline drops the attempt from the expiry worker's sorted set.
// Best-effort: a leftover entry only causes a benign re-check.
func (s *GradingService) removeDeadline(ctx context.Context, attemptID uuid.UUID) {
	if err := s.rdb.ZRem(ctx, config.CacheKey.AttemptDeadlinesKey(), attemptID.String()).Err(); err != nil {
		s.log.Warn().Err(err).
			Str("attempt_id", attemptID.String()).
			Msg("Failed to remove attempt deadline")
	}
}

func loadExamQuestions(ctx context.Context, tx pgx.Tx, examID uuid.UUID) ([]model.ExamQuestion, error) {
	rows, err := tx.Query(ctx,
		`SELECT q.id, q.question_type, eq.points
		 FROM exam_questions eq
		 JOIN questions q ON q.id = eq.question_id
		 WHERE eq.exam_id = $1`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.ExamQuestion
	for rows.Next() {
		var q model.ExamQuestion
		if err := rows.Scan(&q.ID, &q.QuestionType, &q.Points); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// loadOptionFlags returns correctness flags keyed by question id, then
// option id. Keying by option id alone would let an option lifted from
// another question grade as correct.
func loadOptionFlags(ctx context.Context, tx pgx.Tx, examID uuid.UUID) (map[uuid.UUID]map[uuid.UUID]bool, error) {
	rows, err := tx.Query(ctx,
		`SELECT o.question_id, o.id, o.is_correct
		 FROM answer_options o
		 JOIN exam_questions eq ON eq.question_id = o.question_id
		 WHERE eq.exam_id = $1`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flags := make(map[uuid.UUID]map[uuid.UUID]bool)
	for rows.Next() {
		var questionID, optionID uuid.UUID
		var correct bool
		if err := rows.Scan(&questionID, &optionID, &correct); err != nil {
			return nil, err
		}
		if flags[questionID] == nil {
			flags[questionID] = make(map[uuid.UUID]bool)
		}
		flags[questionID][optionID] = correct
	}
	return flags, rows.Err()
}

func loadAnswers(ctx context.Context, tx pgx.Tx, attemptID uuid.UUID) ([]model.StudentAnswer, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, question_id, selected_answer_id
		 FROM student_answers WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.StudentAnswer
	for rows.Next() {
		var a model.StudentAnswer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.SelectedAnswerID); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
