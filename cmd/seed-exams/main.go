package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/examcore-backend/internal/config"
	"github.com/stemsi/examcore-backend/internal/database"
	"github.com/stemsi/examcore-backend/internal/logger"
	"github.com/stemsi/examcore-backend/internal/model"
	"github.com/stemsi/examcore-backend/internal/service"
)

type optionSeed struct {
	text    string
	correct bool
}

type questionSeed struct {
	text    string
	qtype   model.QuestionType
	points  float64
	options []optionSeed
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding demo exam ===")

	questions := []questionSeed{
		{
			text:   "Which layer of the OSI model does TCP operate at?",
			qtype:  model.QuestionTypeMultipleChoice,
			points: 2,
			options: []optionSeed{
				{text: "Network", correct: false},
				{text: "Transport", correct: true},
				{text: "Session", correct: false},
				{text: "Data link", correct: false},
			},
		},
		{
			text:   "What does DNS primarily resolve?",
			qtype:  model.QuestionTypeMultipleChoice,
			points: 2,
			options: []optionSeed{
				{text: "Hostnames to IP addresses", correct: true},
				{text: "MAC addresses to ports", correct: false},
				{text: "URLs to certificates", correct: false},
				{text: "Routes to gateways", correct: false},
			},
		},
		{
			text:   "Which HTTP method is idempotent by specification?",
			qtype:  model.QuestionTypeMultipleChoice,
			points: 2,
			options: []optionSeed{
				{text: "POST", correct: false},
				{text: "PUT", correct: true},
				{text: "PATCH", correct: false},
				{text: "CONNECT", correct: false},
			},
		},
		{
			text:   "UDP guarantees in-order delivery of datagrams.",
			qtype:  model.QuestionTypeTrueFalse,
			points: 1,
			options: []optionSeed{
				{text: "True", correct: false},
				{text: "False", correct: true},
			},
		},
		{
			text:   "Briefly explain the purpose of a three-way handshake.",
			qtype:  model.QuestionTypeShortAnswer,
			points: 3,
		},
	}

	examID := uuid.New()
	now := time.Now()
	until := now.Add(30 * 24 * time.Hour)

	_, err = pool.Exec(ctx, `
		INSERT INTO exams (
			id, title, description, duration_minutes, passing_score,
			shuffle_questions, shuffle_answers, allow_retake, max_attempts,
			available_from, available_until, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		examID,
		"Networking Fundamentals",
		"Demo exam covering TCP/IP basics.",
		20,
		0.6,
		true,
		true,
		true,
		3,
		now,
		until,
		model.ExamStatusPublished,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to insert exam")
	}

	for pos, q := range questions {
		questionID := uuid.New()

		_, err = pool.Exec(ctx,
			`INSERT INTO questions (id, question_text, question_type) VALUES ($1, $2, $3)`,
			questionID, q.text, q.qtype,
		)
		if err != nil {
			log.Fatal().Err(err).Str("question", q.text).Msg("Failed to insert question")
		}

		for idx, opt := range q.options {
			_, err = pool.Exec(ctx,
				`INSERT INTO answer_options (id, question_id, option_text, is_correct, order_index)
				 VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), questionID, opt.text, opt.correct, idx,
			)
			if err != nil {
				log.Fatal().Err(err).Str("option", opt.text).Msg("Failed to insert answer option")
			}
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO exam_questions (exam_id, question_id, points, position)
			 VALUES ($1, $2, $3, $4)`,
			examID, questionID, q.points, pos,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to link question to exam")
		}
	}

	fmt.Printf("Seeded exam %s with %d questions\n", examID, len(questions))

	// Mint a token for student 1 so the seeded exam can be exercised
	// immediately with curl.
	authService := service.NewAuthService(cfg)
	token, err := authService.GenerateStudentToken(1)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate student token")
	}

	fmt.Println("\nSample student token (student_id=1):")
	fmt.Println(token)
	fmt.Printf("\nStart an attempt:\n  curl -X POST -H 'Authorization: Bearer <token>' http://localhost:%s/api/v1/student/exams/%s/attempts\n",
		cfg.ServerPort, examID)
}
