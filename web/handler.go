package web

import (
	"Quizzy/core"
	"Quizzy/lib/sl"
	"Quizzy/storage"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	kindGenerate = "generate"
	kindProcess  = "process"
	kindFeedback = "feedback"
)

// History keeps a record of every generation attempt
type History interface {
	Record(generation storage.Generation)
	Recent(limit int) ([]storage.Generation, error)
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Min":     s.conf.Questions.Min,
		"Max":     s.conf.Questions.Max,
		"Default": s.conf.Questions.Default,
	})
}

func (s *Server) generate(c *gin.Context) {
	start := time.Now()
	record := storage.Generation{
		RequestID: c.GetString(requestIDKey),
	}
	log := s.log.With(slog.String(requestIDKey, record.RequestID))

	markdown, err := s.generateQuestions(c, &record)

	record.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		appErr := core.AsAppError(err)
		record.Error = appErr.Message
		record.ErrorCode = string(appErr.Code)
		s.history.Record(record)
		s.fail(c, log.With(
			sl.Topic(record.Topic),
			slog.Int("count", record.NumQuestions),
		), kindGenerate, err)
		return
	}

	record.Success = true
	record.QuestionsLength = len(markdown)
	s.history.Record(record)
	generationsTotal.WithLabelValues(kindGenerate, "OK").Inc()

	log.With(
		sl.Topic(record.Topic),
		slog.Int("count", record.NumQuestions),
		slog.Int64("duration_ms", record.DurationMs),
	).Info("questions generated")

	c.JSON(http.StatusOK, GenerateResponse{
		Success:   true,
		Questions: markdown,
	})
}

func (s *Server) generateQuestions(c *gin.Context, record *storage.Generation) (string, error) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", core.WrapError(err, core.CodeValidation, "invalid request body")
	}

	record.Topic = strings.TrimSpace(req.Topic)
	record.NumQuestions = s.conf.Questions.Default
	if req.NumQuestions != nil {
		record.NumQuestions = *req.NumQuestions
	}

	if record.Topic == "" {
		return "", core.NewError(core.CodeValidation, "topic is required")
	}
	lo, hi := s.conf.Questions.Min, s.conf.Questions.Max
	if record.NumQuestions < lo || record.NumQuestions > hi {
		return "", core.NewError(core.CodeValidation,
			fmt.Sprintf("number of questions must be between %d and %d", lo, hi))
	}

	started := time.Now()
	defer func() {
		generationDuration.Observe(time.Since(started).Seconds())
	}()
	return s.questions.Generate(c.Request.Context(), record.Topic, record.NumQuestions)
}

func (s *Server) process(c *gin.Context) {
	log := s.log.With(slog.String(requestIDKey, c.GetString(requestIDKey)))

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, log, kindProcess, core.WrapError(err, core.CodeValidation, "invalid request body"))
		return
	}
	content, err := s.validateContent(req)
	if err != nil {
		s.fail(c, log.With(slog.String("type", string(req.Type))), kindProcess, err)
		return
	}

	result, err := s.content.Process(c.Request.Context(), content)
	if err != nil {
		s.fail(c, log.With(slog.Int("length", len(content))), kindProcess, err)
		return
	}
	generationsTotal.WithLabelValues(kindProcess, "OK").Inc()

	log.With(
		slog.Int("length", len(content)),
		slog.Int("topics", len(result.Topics)),
		slog.Int("questions", len(result.Questions)),
	).Info("content processed")

	c.JSON(http.StatusOK, ProcessResponse{
		Success:   true,
		Summary:   result.Summary,
		Topics:    result.Topics,
		Questions: result.Questions,
	})
}

// validateContent returns the text to process. Only plain text is accepted;
// files and links need extractors this service does not have.
func (s *Server) validateContent(req ProcessRequest) (string, error) {
	switch req.Type {
	case "":
		return "", core.NewError(core.CodeValidation, "content type is required")
	case core.ContentText:
	case core.ContentPDF, core.ContentImage, core.ContentYouTube, core.ContentWebsite:
		return "", core.NewError(core.CodeValidation,
			fmt.Sprintf("content type %q is not supported, send the text instead", req.Type))
	default:
		return "", core.NewError(core.CodeValidation, fmt.Sprintf("unknown content type %q", req.Type))
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return "", core.NewError(core.CodeValidation, "text is required")
	}
	if limit := s.conf.Content.MaxLength; limit > 0 && utf8.RuneCountInString(content) > limit {
		return "", core.NewError(core.CodeValidation, fmt.Sprintf("text must be at most %d characters", limit))
	}
	return content, nil
}

func (s *Server) feedback(c *gin.Context) {
	log := s.log.With(slog.String(requestIDKey, c.GetString(requestIDKey)))

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, log, kindFeedback, core.WrapError(err, core.CodeValidation, "invalid request body"))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	req.GptLevel = strings.TrimSpace(req.GptLevel)
	req.UserLevel = strings.TrimSpace(req.UserLevel)

	var missing string
	switch {
	case req.Question == "":
		missing = "question"
	case req.GptLevel == "":
		missing = "gpt_level"
	case req.UserLevel == "":
		missing = "user_level"
	}
	if missing != "" {
		s.fail(c, log, kindFeedback, core.NewError(core.CodeValidation, missing+" is required"))
		return
	}

	feedback, err := s.content.Feedback(c.Request.Context(), req.Question, req.GptLevel, req.UserLevel)
	if err != nil {
		s.fail(c, log, kindFeedback, err)
		return
	}
	generationsTotal.WithLabelValues(kindFeedback, "OK").Inc()

	c.JSON(http.StatusOK, FeedbackResponse{
		Success:  true,
		Feedback: feedback,
	})
}

// fail logs err by severity, counts it and writes the error envelope
func (s *Server) fail(c *gin.Context, log *slog.Logger, kind string, err error) {
	appErr := core.AsAppError(err)
	generationsTotal.WithLabelValues(kind, string(appErr.Code)).Inc()

	logger := log.With(
		slog.String("kind", kind),
		slog.String("code", string(appErr.Code)),
	)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", sl.Err(err))
	} else {
		logger.Warn("rejected", sl.Err(err))
	}
	abortWithError(c, appErr)
}

func (s *Server) generations(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, core.NewError(core.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := s.history.Recent(limit)
	if err != nil {
		s.log.Error("listing generations", sl.Err(err))
		abortWithError(c, core.WrapError(err, core.CodeInternal, "internal server error"))
		return
	}
	if records == nil {
		records = []storage.Generation{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) notFound(c *gin.Context) {
	abortWithError(c, core.NewError(core.CodeNotFound,
		fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path)))
}
