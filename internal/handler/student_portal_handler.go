package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/examcore-backend/internal/middleware"
	"github.com/stemsi/examcore-backend/internal/model"
	"github.com/stemsi/examcore-backend/internal/response"
	"github.com/stemsi/examcore-backend/internal/service"
	"github.com/stemsi/examcore-backend/internal/validator"
)

// StudentPortalHandler handles student-facing exam taking endpoints.
type StudentPortalHandler struct {
	attemptService *service.AttemptService
	paperService   *service.PaperService
	answerService  *service.AnswerService
	gradingService *service.GradingService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	attemptService *service.AttemptService,
	paperService *service.PaperService,
	answerService *service.AnswerService,
	gradingService *service.GradingService,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		attemptService: attemptService,
		paperService:   paperService,
		answerService:  answerService,
		gradingService: gradingService,
	}
}

// StartAttempt godoc
// POST /api/v1/student/exams/:exam_id/attempts
// Admits the student into the exam and returns the new attempt.
func (h *StudentPortalHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.StartAttempt(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetAttempts godoc
// GET /api/v1/student/exams/:exam_id/attempts
// Returns the student's attempt history for an exam, oldest first.
func (h *StudentPortalHandler) GetAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	results, err := h.attemptService.GetAttemptsForExam(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": results})
}

// GetQuestions godoc
// GET /api/v1/student/attempts/:attempt_id/questions
// Returns the attempt's paper in its frozen question order. Safe to call
// any number of times; the order never changes within an attempt.
func (h *StudentPortalHandler) GetQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.paperService.GetQuestions(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// GetAttemptExam godoc
// GET /api/v1/student/attempts/:attempt_id/exam
// Returns the exam's display metadata for an attempt.
func (h *StudentPortalHandler) GetAttemptExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	summary, err := h.attemptService.GetAttemptExamSummary(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": summary})
}

// GetAttemptState godoc
// GET /api/v1/student/attempts/:attempt_id/state
// Returns remaining time and answered question ids so the frontend can
// recover after a page reload.
func (h *StudentPortalHandler) GetAttemptState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.GetAttemptState(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// SubmitAnswer godoc
// PUT /api/v1/student/attempts/:attempt_id/answers
// Captures one answer, idempotently. Re-submission overwrites.
func (h *StudentPortalHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.answerService.SubmitAnswer(c.Request.Context(), attemptID, claims.UserID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SubmitAttempt godoc
// POST /api/v1/student/attempts/:attempt_id/submit
// Finalizes and grades the attempt. A second submit fails cleanly.
func (h *StudentPortalHandler) SubmitAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.gradingService.SubmitAttempt(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// failFromService maps service errors to typed response codes so the
// client always receives a specific, actionable error.
func failFromService(c *gin.Context, err error) {
	var inProgress *service.AttemptInProgressError

	switch {
	case errors.As(err, &inProgress):
		// Carry the resumable attempt id so the client can continue it.
		response.FailWithData(c, http.StatusConflict, response.ErrAttemptInProgress,
			gin.H{"attempt_id": inProgress.AttemptID})
	case errors.Is(err, service.ErrExamNotFound), errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrExamNotAvailable):
		response.Fail(c, http.StatusBadRequest, response.ErrExamNotAvailable)
	case errors.Is(err, service.ErrExamOutOfWindow):
		response.Fail(c, http.StatusBadRequest, response.ErrExamOutOfWindow)
	case errors.Is(err, service.ErrRetakeNotAllowed):
		response.Fail(c, http.StatusForbidden, response.ErrRetakeNotAllowed)
	case errors.Is(err, service.ErrAttemptsExhausted):
		response.Fail(c, http.StatusForbidden, response.ErrAttemptsExhausted)
	case errors.Is(err, service.ErrAttemptNotActive):
		response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
	case errors.Is(err, service.ErrQuestionNotInExam):
		response.Fail(c, http.StatusBadRequest, response.ErrQuestionNotInExam)
	case errors.Is(err, service.ErrOptionNotInQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrOptionNotInQuestion)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
