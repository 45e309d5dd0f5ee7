package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/examcore-backend/internal/model"
)

// AnswerRepository handles student answer data access.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert stores an answer for (attempt, question), overwriting any prior
// selection. Returns created=false when an existing row was overwritten.
// The unique constraint on (attempt_id, question_id) guarantees concurrent
// submissions collapse into a single row, last write wins.
func (r *AnswerRepository) Upsert(ctx context.Context, ans *model.StudentAnswer) (created bool, err error) {
	err = r.pool.QueryRow(ctx,
		`INSERT INTO student_answers (attempt_id, question_id, selected_answer_id, answer_text)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE
		 SET selected_answer_id = EXCLUDED.selected_answer_id,
		     answer_text = EXCLUDED.answer_text,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at, (xmax = 0)`,
		ans.AttemptID, ans.QuestionID, ans.SelectedAnswerID, ans.AnswerText,
	).Scan(&ans.ID, &ans.CreatedAt, &ans.UpdatedAt, &created)
	return created, err
}

// ListAnsweredQuestionIDs returns the ids of questions that already have a
// stored answer for the attempt. Used for page-reload recovery.
func (r *AnswerRepository) ListAnsweredQuestionIDs(ctx context.Context, attemptID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM student_answers WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
