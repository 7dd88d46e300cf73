package ai

import (
	"Quizzy/core"
	"Quizzy/lib/sl"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	summaryMaxTokens  = 500
	compressMaxTokens = 200
	summaryTemp       = 0.3
)

type conceptSet struct {
	Questions []core.ConceptQuestion `json:"questions"`
}

// Process summarizes content and writes concept questions from the summary
func (g *QuestionGenerator) Process(ctx context.Context, content string) (*core.ProcessResult, error) {
	summary, err := g.Summarize(ctx, content)
	if err != nil {
		return nil, err
	}

	questions, err := g.ConceptQuestions(ctx, summary)
	if err != nil {
		return nil, err
	}

	return &core.ProcessResult{
		Summary:   summary.Summary,
		Topics:    summary.Topics,
		Questions: questions,
	}, nil
}

// Summarize condenses content into a summary and key topics. Content above
// the chunk size is summarized piece by piece, then the pieces are merged.
func (g *QuestionGenerator) Summarize(ctx context.Context, content string) (*core.Summary, error) {
	size := g.conf.Content.ChunkTokens
	if g.tokens.Count(content) <= size {
		return g.summarize(ctx, summaryPrompt(content))
	}

	chunks := splitText(content, size, g.tokens)
	log := g.log.With(slog.Int("chunks", len(chunks)))
	log.Debug("summarizing in chunks")

	var summaries []string
	var topics []string
	seen := make(map[string]bool)
	for i, chunk := range chunks {
		if i > 0 {
			if err := g.pause(ctx); err != nil {
				return nil, core.WrapError(err, core.CodeUpstream, "question generation service is unavailable")
			}
		}

		part, err := g.summarize(ctx, chunkSummaryPrompt(chunk))
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.With(
				slog.Int("chunk", i),
			).Warn("skipping chunk", sl.Err(err))
			continue
		}
		summaries = append(summaries, part.Summary)
		for _, topic := range part.Topics {
			if !seen[topic] {
				seen[topic] = true
				topics = append(topics, topic)
			}
		}
	}
	if len(summaries) == 0 {
		return nil, core.NewError(core.CodeContent, "the content could not be summarized")
	}

	combined := strings.Join(summaries, " ")
	if g.tokens.Count(combined) > size {
		var compressed []string
		for _, chunk := range splitText(combined, size, g.tokens) {
			request := NewRequest(compressSystemPrompt, compressPrompt(chunk), g.conf.OpenAI.Model, compressMaxTokens, summaryTemp)
			request.ResponseFormat = nil
			text, err := g.complete(ctx, request)
			if err != nil {
				return nil, err
			}
			compressed = append(compressed, strings.TrimSpace(text))
		}
		combined = strings.Join(compressed, " ")
	}

	if limit := g.conf.Content.MaxTopics; limit > 0 && len(topics) > limit {
		topics = topics[:limit]
	}
	return &core.Summary{Summary: combined, Topics: topics}, nil
}

func (g *QuestionGenerator) summarize(ctx context.Context, prompt string) (*core.Summary, error) {
	request := NewRequest(systemPrompt, prompt, g.conf.OpenAI.Model, summaryMaxTokens, summaryTemp)
	content, err := g.complete(ctx, request)
	if err != nil {
		return nil, err
	}

	var summary core.Summary
	if err := json.Unmarshal([]byte(stripFence(content)), &summary); err != nil {
		return nil, core.WrapError(fmt.Errorf("parsing summary: %w", err),
			core.CodeGeneration, "the model returned an unexpected answer")
	}
	summary.Summary = strings.TrimSpace(summary.Summary)
	if summary.Summary == "" {
		return nil, core.NewError(core.CodeGeneration, "the model returned an empty summary")
	}
	return &summary, nil
}

// ConceptQuestions asks for multiple choice questions on the key concepts
// of a summary. Questions whose answer is not one of their options are dropped.
func (g *QuestionGenerator) ConceptQuestions(ctx context.Context, summary *core.Summary) ([]core.ConceptQuestion, error) {
	request := NewRequest(systemPrompt, conceptQuestionsPrompt(summary.Summary, summary.Topics),
		g.conf.OpenAI.Model, g.conf.OpenAI.MaxTokens, g.conf.OpenAI.Temperature)
	content, err := g.complete(ctx, request)
	if err != nil {
		return nil, err
	}

	questions, err := parseConceptQuestions(content)
	if err != nil {
		g.log.With(
			slog.String("content", content),
		).Debug("unparseable concept questions")
		return nil, core.WrapError(err, core.CodeGeneration, "the model returned an unexpected answer")
	}

	g.log.With(
		slog.Int("topics", len(summary.Topics)),
		slog.Int("questions", len(questions)),
	).Info("concept questions generated")
	return questions, nil
}

func parseConceptQuestions(content string) ([]core.ConceptQuestion, error) {
	var set conceptSet
	if err := json.Unmarshal([]byte(stripFence(content)), &set); err != nil {
		return nil, fmt.Errorf("parsing concept questions: %w", err)
	}

	questions := make([]core.ConceptQuestion, 0, len(set.Questions))
	for _, q := range set.Questions {
		q.Question = strings.TrimSpace(q.Question)
		q.Answer = strings.ToUpper(strings.TrimSpace(q.Answer))
		if q.Question == "" || len(q.Options) == 0 {
			continue
		}
		if _, ok := q.Options[q.Answer]; !ok {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, errors.New("parsing concept questions: no usable questions in answer")
	}
	return questions, nil
}

// Feedback explains the gap between the level the model gave a question
// and the level the learner chose
func (g *QuestionGenerator) Feedback(ctx context.Context, question, gptLevel, userLevel string) (string, error) {
	request := NewRequest(feedbackSystemPrompt, feedbackPrompt(question, gptLevel, userLevel),
		g.conf.OpenAI.Model, g.conf.OpenAI.MaxTokens, g.conf.OpenAI.Temperature)
	request.ResponseFormat = nil

	content, err := g.complete(ctx, request)
	if err != nil {
		return "", err
	}
	feedback := strings.TrimSpace(content)
	if feedback == "" {
		return "", core.NewError(core.CodeGeneration, "the model returned no feedback")
	}
	return feedback, nil
}

// pause spaces out consecutive chunk requests
func (g *QuestionGenerator) pause(ctx context.Context) error {
	delay := g.conf.Content.ChunkDelay
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
