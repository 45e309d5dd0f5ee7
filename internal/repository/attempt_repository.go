package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/examcore-backend/internal/model"
)

// AttemptRepository handles attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, exam_id, student_id, attempt_number, status,
	started_at, submitted_at, score, passed, question_order, created_at, updated_at`

func scanAttempt(row pgx.Row) (*model.Attempt, error) {
	a := &model.Attempt{}
	var orderRaw []byte
	err := row.Scan(&a.ID, &a.ExamID, &a.StudentID, &a.AttemptNumber, &a.Status,
		&a.StartedAt, &a.SubmittedAt, &a.Score, &a.Passed, &orderRaw, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(orderRaw, &a.QuestionOrder); err != nil {
		return nil, fmt.Errorf("decode question order: %w", err)
	}
	return a, nil
}

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

// Create inserts a new attempt after the admit callback approves the
// observed state. The in-progress lookup, prior-attempt count, admission
// decision and insert all run inside one transaction, serialized per
// (student, exam) by an advisory lock, so two concurrent starts cannot
// both succeed and attempt numbers stay gapless.
//
// a must carry ExamID, StudentID, StartedAt and QuestionOrder; the
// repository fills ID, AttemptNumber and Status.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt, admit func(inProgress *model.Attempt, priorAttempts int) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		lockKey := fmt.Sprintf("attempt:%d:%s", a.StudentID, a.ExamID)
		if _, err := tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
			return fmt.Errorf("acquire attempt lock: %w", err)
		}

		inProgress, err := scanAttempt(tx.QueryRow(ctx,
			`SELECT `+attemptColumns+`
			 FROM attempts
			 WHERE student_id = $1 AND exam_id = $2 AND status = $3`,
			a.StudentID, a.ExamID, model.AttemptStatusInProgress))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("find in-progress attempt: %w", err)
		}

		var priorAttempts int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM attempts WHERE student_id = $1 AND exam_id = $2`,
			a.StudentID, a.ExamID).Scan(&priorAttempts); err != nil {
			return fmt.Errorf("count prior attempts: %w", err)
		}

		if err := admit(inProgress, priorAttempts); err != nil {
			return err
		}

		orderRaw, err := json.Marshal(a.QuestionOrder)
		if err != nil {
			return fmt.Errorf("encode question order: %w", err)
		}

		a.AttemptNumber = priorAttempts + 1
		a.Status = model.AttemptStatusInProgress

		return tx.QueryRow(ctx,
			`INSERT INTO attempts (exam_id, student_id, attempt_number, status, started_at, question_order)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at, updated_at`,
			a.ExamID, a.StudentID, a.AttemptNumber, a.Status, a.StartedAt, orderRaw,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	})
}

// ListByStudentAndExam retrieves every attempt a student has made at an
// exam, ordered by attempt number ascending.
func (r *AttemptRepository) ListByStudentAndExam(ctx context.Context, studentID int, examID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+`
		 FROM attempts
		 WHERE student_id = $1 AND exam_id = $2
		 ORDER BY attempt_number`, studentID, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// ListExpiredInProgress returns ids of IN_PROGRESS attempts whose exam time
// limit has passed. Used by the expiry worker as a self-heal sweep in case
// a deadline entry was lost from Redis.
func (r *AttemptRepository) ListExpiredInProgress(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id
		 FROM attempts a
		 JOIN exams e ON e.id = a.exam_id
		 WHERE a.status = $1
		   AND a.started_at + make_interval(mins => e.duration_minutes) < $2
		 ORDER BY a.started_at
		 LIMIT $3`, model.AttemptStatusInProgress, now, limit,
	)
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
