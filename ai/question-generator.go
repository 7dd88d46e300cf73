package ai

import (
	"Quizzy/core"
	"Quizzy/lib/sl"
	"Quizzy/markdown"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

type QuestionGenerator struct {
	conf       *core.Config
	log        *slog.Logger
	httpClient *http.Client
	tokens     tokenCounter
}

func NewQuestionGenerator(conf *core.Config, log *slog.Logger) *QuestionGenerator {
	log = log.With(sl.Module("question-generator"))
	return &QuestionGenerator{
		conf: conf,
		log:  log,
		httpClient: &http.Client{
			Timeout: conf.OpenAI.Timeout,
		},
		tokens: newTokenCounter(log),
	}
}

type questionSet struct {
	Questions []markdown.Question `json:"questions"`
}

// Generate asks the model for count questions on topic and returns them
// formatted as a markdown document
func (g *QuestionGenerator) Generate(ctx context.Context, topic string, count int) (string, error) {
	request := NewRequest(systemPrompt, questionsPrompt(topic, count), g.conf.OpenAI.Model, g.conf.OpenAI.MaxTokens, g.conf.OpenAI.Temperature)
	content, err := g.complete(ctx, request)
	if err != nil {
		return "", err
	}

	questions, err := parseQuestions(content)
	if err != nil {
		g.log.With(
			sl.Topic(topic),
			slog.String("content", content),
		).Debug("unparseable completion")
		return "", core.WrapError(err, core.CodeGeneration, "the model returned an unexpected answer")
	}

	g.log.With(
		sl.Topic(topic),
		slog.Int("requested", count),
		slog.Int("received", len(questions)),
	).Info("questions generated")

	return markdown.FormatQuestions(topic, questions), nil
}

func (g *QuestionGenerator) complete(ctx context.Context, request *GPTRequest) (string, error) {
	jsonBytes, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	url := strings.TrimSuffix(g.conf.OpenAI.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.conf.OpenAI.ApiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", core.WrapError(err, core.CodeUpstream, "question generation service is unavailable")
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			g.log.Warn("closing response body", sl.Err(err))
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", core.WrapError(err, core.CodeUpstream, "question generation service is unavailable")
	}

	var chatCompletion ChatCompletion
	if err = json.Unmarshal(body, &chatCompletion); err != nil {
		return "", core.WrapError(
			fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err),
			core.CodeUpstream, "question generation service is unavailable")
	}
	if chatCompletion.Error != nil && chatCompletion.Error.Message != "" {
		return "", core.WrapError(
			fmt.Errorf("api error %q (status %d): %s", chatCompletion.Error.Code, resp.StatusCode, chatCompletion.Error.Message),
			core.CodeUpstream, "question generation service is unavailable")
	}
	if resp.StatusCode != http.StatusOK {
		return "", core.WrapError(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			core.CodeUpstream, "question generation service is unavailable")
	}

	attrs := []any{
		slog.String("model", chatCompletion.Model),
		slog.Int("choices", len(chatCompletion.Choices)),
	}
	if chatCompletion.Usage != nil {
		attrs = append(attrs, slog.Int("tokens", chatCompletion.Usage.TotalTokens))
	}
	g.log.With(attrs...).Debug("chat completion")

	if len(chatCompletion.Choices) == 0 {
		return "", core.NewError(core.CodeGeneration, "the model returned no answer")
	}
	return chatCompletion.Choices[0].Message.Content, nil
}

// stripFence removes a markdown code fence around a JSON answer
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func parseQuestions(content string) ([]markdown.Question, error) {
	var set questionSet
	if err := json.Unmarshal([]byte(stripFence(content)), &set); err != nil {
		return nil, fmt.Errorf("parsing questions: %w", err)
	}

	questions := make([]markdown.Question, 0, len(set.Questions))
	for _, q := range set.Questions {
		q.Content = strings.TrimSpace(q.Content)
		if q.Content == "" {
			continue
		}
		q.Type = markdown.QuestionType(strings.ToLower(strings.TrimSpace(string(q.Type))))
		if q.Type != markdown.Analysis && q.Type != markdown.Synthesis {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("parsing questions: no questions in answer")
	}
	return questions, nil
}
