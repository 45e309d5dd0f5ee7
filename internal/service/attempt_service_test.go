package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/examcore-backend/internal/model"
)

func publishedExam() *model.Exam {
	return &model.Exam{
		ID:          uuid.New(),
		Status:      model.ExamStatusPublished,
		AllowRetake: true,
		MaxAttempts: 3,
	}
}

func TestAdmitAttempt_PolicyChecks(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	later := now.Add(time.Hour)

	tests := []struct {
		name    string
		mutate  func(e *model.Exam)
		priors  int
		wantErr error
	}{
		{
			name:   "published exam admits first attempt",
			mutate: func(e *model.Exam) {},
		},
		{
			name:    "draft exam is not available",
			mutate:  func(e *model.Exam) { e.Status = model.ExamStatusDraft },
			wantErr: ErrExamNotAvailable,
		},
		{
			name:    "archived exam is not available",
			mutate:  func(e *model.Exam) { e.Status = model.ExamStatusArchived },
			wantErr: ErrExamNotAvailable,
		},
		{
			name:    "before availability window",
			mutate:  func(e *model.Exam) { e.AvailableFrom = &later },
			wantErr: ErrExamOutOfWindow,
		},
		{
			name:    "after availability window",
			mutate:  func(e *model.Exam) { e.AvailableUntil = &earlier },
			wantErr: ErrExamOutOfWindow,
		},
		{
			name:   "inside availability window",
			mutate: func(e *model.Exam) { e.AvailableFrom = &earlier; e.AvailableUntil = &later },
		},
		{
			name:    "no retake with a prior attempt",
			mutate:  func(e *model.Exam) { e.AllowRetake = false; e.MaxAttempts = 1 },
			priors:  1,
			wantErr: ErrRetakeNotAllowed,
		},
		{
			name:   "no retake without prior attempts",
			mutate: func(e *model.Exam) { e.AllowRetake = false; e.MaxAttempts = 1 },
		},
		{
			name:    "attempts exhausted at max",
			mutate:  func(e *model.Exam) { e.MaxAttempts = 2 },
			priors:  2,
			wantErr: ErrAttemptsExhausted,
		},
		{
			name:   "retake below max admits",
			mutate: func(e *model.Exam) { e.MaxAttempts = 2 },
			priors: 1,
		},
		{
			name: "draft status reported before window",
			mutate: func(e *model.Exam) {
				e.Status = model.ExamStatusDraft
				e.AvailableFrom = &later
			},
			wantErr: ErrExamNotAvailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exam := publishedExam()
			tc.mutate(exam)

			err := admitAttempt(exam, now, nil, tc.priors)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("admitAttempt() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAdmitAttempt_InProgressCarriesAttemptID(t *testing.T) {
	exam := publishedExam()
	existing := &model.Attempt{ID: uuid.New(), Status: model.AttemptStatusInProgress}

	err := admitAttempt(exam, time.Now(), existing, 1)

	var inProgress *AttemptInProgressError
	if !errors.As(err, &inProgress) {
		t.Fatalf("admitAttempt() = %v, want *AttemptInProgressError", err)
	}
	if inProgress.AttemptID != existing.ID {
		t.Errorf("AttemptID = %s, want %s", inProgress.AttemptID, existing.ID)
	}
}

func TestAdmitAttempt_InProgressCheckedBeforeRetakePolicy(t *testing.T) {
	// A resumable attempt must be reported even when the retake policy
	// would also reject, so the client can resume instead of giving up.
	exam := publishedExam()
	exam.AllowRetake = false
	existing := &model.Attempt{ID: uuid.New(), Status: model.AttemptStatusInProgress}

	err := admitAttempt(exam, time.Now(), existing, 1)

	var inProgress *AttemptInProgressError
	if !errors.As(err, &inProgress) {
		t.Fatalf("admitAttempt() = %v, want *AttemptInProgressError", err)
	}
}
