package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/examcore-backend/internal/model"
)

// ExamRepository handles read-only access to the exam catalog.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, duration_minutes, passing_score,
		        shuffle_questions, shuffle_answers, allow_retake, max_attempts,
		        available_from, available_until, status, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.DurationMinutes, &e.PassingScore,
		&e.ShuffleQuestions, &e.ShuffleAnswers, &e.AllowRetake, &e.MaxAttempts,
		&e.AvailableFrom, &e.AvailableUntil, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetSummary retrieves the display metadata for an exam, including its
// question count.
func (r *ExamRepository) GetSummary(ctx context.Context, id uuid.UUID) (*model.ExamSummary, error) {
	s := &model.ExamSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT e.id, e.title, e.description, e.duration_minutes,
		        (SELECT COUNT(*) FROM exam_questions eq WHERE eq.exam_id = e.id)
		 FROM exams e WHERE e.id = $1`, id,
	).Scan(&s.ExamID, &s.Title, &s.Description, &s.DurationMinutes, &s.TotalQuestions)
	if err != nil {
		return nil, err
	}
	return s, nil
}
