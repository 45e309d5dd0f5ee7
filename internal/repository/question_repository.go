package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/examcore-backend/internal/model"
)

// QuestionRepository handles read-only access to catalog questions and
// their answer options.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByExam retrieves all questions belonging to an exam with their
// per-exam point values, in stored position order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ExamQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.question_text, q.question_type, eq.exam_id, eq.points, eq.position
		 FROM exam_questions eq
		 JOIN questions q ON q.id = eq.question_id
		 WHERE eq.exam_id = $1
		 ORDER BY eq.position`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.ExamQuestion
	for rows.Next() {
		var q model.ExamQuestion
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.QuestionType, &q.ExamID, &q.Points, &q.Position); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// OptionBelongsToQuestion reports whether an answer option is one of the
// given question's own options.
func (r *QuestionRepository) OptionBelongsToQuestion(ctx context.Context, optionID, questionID uuid.UUID) (bool, error) {
	var belongs bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM answer_options WHERE id = $1 AND question_id = $2
		 )`, optionID, questionID,
	).Scan(&belongs)
	return belongs, err
}

// ListOptionsByExam retrieves the answer options for every question of an
// exam, keyed by question id and ordered by the stored order_index.
func (r *QuestionRepository) ListOptionsByExam(ctx context.Context, examID uuid.UUID) (map[uuid.UUID][]model.AnswerOption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.question_id, o.option_text, o.is_correct, o.order_index
		 FROM answer_options o
		 JOIN exam_questions eq ON eq.question_id = o.question_id
		 WHERE eq.exam_id = $1
		 ORDER BY o.question_id, o.order_index`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := make(map[uuid.UUID][]model.AnswerOption)
	for rows.Next() {
		var o model.AnswerOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.OptionText, &o.IsCorrect, &o.OrderIndex); err != nil {
			return nil, err
		}
		options[o.QuestionID] = append(options[o.QuestionID], o)
	}
	return options, rows.Err()
}
