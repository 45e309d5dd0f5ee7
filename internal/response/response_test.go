package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEveryErrCodeHasMessage(t *testing.T) {
	codes := []ErrCode{
		ErrTokenRequired, ErrTokenInvalid, ErrTokenExpired,
		ErrForbidden, ErrStudentAccessOnly,
		ErrValidation, ErrInvalidID, ErrInvalidPayload,
		ErrNotFound,
		ErrExamNotAvailable, ErrExamOutOfWindow, ErrAttemptInProgress,
		ErrRetakeNotAllowed, ErrAttemptsExhausted,
		ErrAttemptNotActive, ErrQuestionNotInExam, ErrOptionNotInQuestion,
		ErrRateLimitExceeded,
		ErrInternal,
	}

	for _, code := range codes {
		if msg := GetMessage(code); msg == "" {
			t.Errorf("no message for code %s", code)
		}
	}

	if msg := GetMessage(ErrCode("NO_SUCH_CODE")); msg == "" {
		t.Error("unknown codes must still produce a generic message")
	}
}

func TestFailEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	Fail(c, http.StatusConflict, ErrAttemptNotActive)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error == nil || body.Error.Code != ErrAttemptNotActive {
		t.Errorf("error = %+v, want code %s", body.Error, ErrAttemptNotActive)
	}
	if body.Metadata.RequestID == "" {
		t.Error("request id missing from metadata")
	}
	if body.Metadata.Timestamp == "" {
		t.Error("timestamp missing from metadata")
	}
}

func TestFailWithDataKeepsPayload(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", nil)

	FailWithData(c, http.StatusConflict, ErrAttemptInProgress,
		gin.H{"attempt_id": "a-1"})

	var body struct {
		Data struct {
			AttemptID string `json:"attempt_id"`
		} `json:"data"`
		Error *ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data.AttemptID != "a-1" {
		t.Errorf("data.attempt_id = %q, want a-1", body.Data.AttemptID)
	}
	if body.Error == nil || body.Error.Code != ErrAttemptInProgress {
		t.Errorf("error code = %+v, want %s", body.Error, ErrAttemptInProgress)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set(ContextKeyRequestID, "req-123")

	Success(c, http.StatusOK, gin.H{"status": "ok"})

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != nil {
		t.Errorf("error = %+v, want nil", body.Error)
	}
	if body.Metadata.RequestID != "req-123" {
		t.Errorf("request id = %q, want req-123", body.Metadata.RequestID)
	}
}
