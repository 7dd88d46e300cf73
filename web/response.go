package web

import (
	"Quizzy/core"

	"github.com/gin-gonic/gin"
)

// GenerateRequest is the body of POST /generate. A missing or null count
// takes the configured default.
type GenerateRequest struct {
	Topic        string `json:"topic"`
	NumQuestions *int   `json:"num_questions"`
}

type GenerateResponse struct {
	Success   bool   `json:"success"`
	Questions string `json:"questions"`
}

type ProcessRequest struct {
	Type    core.ContentType `json:"type"`
	Content string           `json:"content"`
}

type ProcessResponse struct {
	Success   bool                   `json:"success"`
	Summary   string                 `json:"summary"`
	Topics    []string               `json:"topics"`
	Questions []core.ConceptQuestion `json:"questions"`
}

type FeedbackRequest struct {
	Question  string `json:"question"`
	GptLevel  string `json:"gpt_level"`
	UserLevel string `json:"user_level"`
}

type FeedbackResponse struct {
	Success  bool   `json:"success"`
	Feedback string `json:"feedback"`
}

type ErrorResponse struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error"`
	ErrorCode core.ErrorCode `json:"error_code"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func abortWithError(c *gin.Context, appErr *core.AppError) {
	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Success:   false,
		Error:     appErr.Message,
		ErrorCode: appErr.Code,
	})
}
