package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAttemptHasQuestion(t *testing.T) {
	inOrder := uuid.New()
	attempt := &Attempt{QuestionOrder: []uuid.UUID{uuid.New(), inOrder, uuid.New()}}

	if !attempt.HasQuestion(inOrder) {
		t.Error("HasQuestion = false for a question in the frozen order")
	}
	if attempt.HasQuestion(uuid.New()) {
		t.Error("HasQuestion = true for a question from outside the attempt")
	}

	empty := &Attempt{}
	if empty.HasQuestion(inOrder) {
		t.Error("HasQuestion = true on an attempt with no questions")
	}
}

func TestAttemptDeadline(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	attempt := &Attempt{StartedAt: started}
	exam := &Exam{DurationMinutes: 45}

	want := started.Add(45 * time.Minute)
	if got := attempt.Deadline(exam); !got.Equal(want) {
		t.Errorf("Deadline = %v, want %v", got, want)
	}
}
