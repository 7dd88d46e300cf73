package ai

import (
	"Quizzy/core"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// completionServer answers each chat completion with reply(prompt) and keeps
// every request it got
func completionServer(t *testing.T, reply func(prompt string) string) (*httptest.Server, func() []GPTRequest) {
	t.Helper()
	var mu sync.Mutex
	var got []GPTRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GPTRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		got = append(got, req)
		mu.Unlock()
		_, _ = io.WriteString(w, completionWith(reply(req.Messages[len(req.Messages)-1].Content)))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []GPTRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]GPTRequest(nil), got...)
	}
}

func contentGenerator(baseURL string) *QuestionGenerator {
	conf := testConfig(baseURL)
	conf.Content.ChunkTokens = 5
	conf.Content.MaxTopics = 2
	g := NewQuestionGenerator(conf, discard())
	g.tokens = wordCounter{}
	return g
}

func TestSplitText(t *testing.T) {
	cases := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"paragraphs merge", "a b\n\nc d\n\ne f", 5, []string{"a b\n\nc d", "e f"}},
		{"sentences", "Alpha beta gamma. Delta epsilon zeta. Eta theta", 4,
			[]string{"Alpha beta gamma.", "Delta epsilon zeta.", "Eta theta."}},
		{"words keep order", "one two three\n\nfour five six seven eight nine\n\nten", 5,
			[]string{"one two three", "four five six seven eight", "nine.", "ten"}},
		{"blank input", "\n\n  \n\n", 5, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := splitText(tc.text, tc.size, wordCounter{})
			assert.Equal(t, tc.want, chunks)
			for _, chunk := range chunks {
				assert.LessOrEqual(t, wordCounter{}.Count(chunk), tc.size)
			}
		})
	}
}

func TestTokenCounter(t *testing.T) {
	counter := newTokenCounter(discard())
	require.IsType(t, tiktokenCounter{}, counter)
	assert.Equal(t, 2, counter.Count("hello world"))
	assert.Zero(t, counter.Count(""))
}

func TestSummarizeShortContent(t *testing.T) {
	srv, requests := completionServer(t, func(string) string {
		return "```json\n{\"summary\":\" Cells divide. \",\"topics\":[\"mitosis\",\"meiosis\",\"cycle\"]}\n```"
	})

	summary, err := contentGenerator(srv.URL).Summarize(context.Background(), "Cells divide by mitosis.")
	require.NoError(t, err)

	assert.Equal(t, "Cells divide.", summary.Summary)
	assert.Equal(t, []string{"mitosis", "meiosis", "cycle"}, summary.Topics)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, summaryMaxTokens, got[0].MaxTokens)
	assert.Equal(t, summaryTemp, got[0].Temperature)
	require.NotNil(t, got[0].ResponseFormat)
	assert.Contains(t, got[0].Messages[1].Content, `"""Cells divide by mitosis."""`)
}

func TestSummarizeLongContentInChunks(t *testing.T) {
	srv, requests := completionServer(t, func(prompt string) string {
		switch {
		case strings.Contains(prompt, "Compress the following"):
			return "short"
		case strings.Contains(prompt, "a1"):
			return `{"summary":"alpha part one","topics":["x","y"]}`
		case strings.Contains(prompt, "b1"):
			return "not json"
		default:
			return `{"summary":"gamma part three","topics":["y","z"]}`
		}
	})

	content := "a1 a2 a3 a4\n\nb1 b2 b3 b4\n\nc1 c2 c3 c4"
	summary, err := contentGenerator(srv.URL).Summarize(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, "short short", summary.Summary)
	assert.Equal(t, []string{"x", "y"}, summary.Topics)

	got := requests()
	require.Len(t, got, 5)
	for _, req := range got[:3] {
		assert.Contains(t, req.Messages[1].Content, "piece of a longer text")
	}
	for _, req := range got[3:] {
		assert.Nil(t, req.ResponseFormat)
		assert.Equal(t, compressMaxTokens, req.MaxTokens)
	}
}

func TestSummarizeAllChunksFail(t *testing.T) {
	srv, _ := completionServer(t, func(string) string { return "no" })

	_, err := contentGenerator(srv.URL).Summarize(context.Background(), "a b c\n\nd e f")
	appErr := core.AsAppError(err)
	assert.Equal(t, core.CodeContent, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
}

func TestProcess(t *testing.T) {
	srv, requests := completionServer(t, func(prompt string) string {
		if strings.Contains(prompt, "Key topics:") {
			return `{"questions":[
				{"question":"Which is closest to cell division?","options":{"A":{"question":"How do cells split?","proximity":90},"B":{"question":"What is a leaf?","proximity":20}},"answer":"a","explanation":{"correct":"A is about division","incorrect":"B is not"}},
				{"question":"Broken","options":{"A":{"question":"x","proximity":1}},"answer":"F"}
			]}`
		}
		return `{"summary":"Cells divide.","topics":["mitosis"]}`
	})

	result, err := contentGenerator(srv.URL).Process(context.Background(), "Cells divide.")
	require.NoError(t, err)

	assert.Equal(t, "Cells divide.", result.Summary)
	assert.Equal(t, []string{"mitosis"}, result.Topics)
	require.Len(t, result.Questions, 1)
	q := result.Questions[0]
	assert.Equal(t, "A", q.Answer)
	assert.Equal(t, 90, q.Options["A"].Proximity)
	assert.Equal(t, "A is about division", q.Explanation.Correct)

	got := requests()
	require.Len(t, got, 2)
	assert.Contains(t, got[1].Messages[1].Content, "- mitosis\n")
}

func TestProcessNoUsableQuestions(t *testing.T) {
	srv, _ := completionServer(t, func(prompt string) string {
		if strings.Contains(prompt, "Key topics:") {
			return `{"questions":[{"question":"q","options":{},"answer":"A"}]}`
		}
		return `{"summary":"s","topics":[]}`
	})

	_, err := contentGenerator(srv.URL).Process(context.Background(), "text")
	assert.Equal(t, core.CodeGeneration, core.AsAppError(err).Code)
}

func TestFeedback(t *testing.T) {
	srv, requests := completionServer(t, func(string) string { return "  Good try!  " })

	feedback, err := contentGenerator(srv.URL).Feedback(context.Background(), "Why?", "analysis", "recall")
	require.NoError(t, err)
	assert.Equal(t, "Good try!", feedback)

	got := requests()
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ResponseFormat)
	assert.Equal(t, feedbackSystemPrompt, got[0].Messages[0].Content)
	assert.Contains(t, got[0].Messages[1].Content, "Level judged by the model: analysis")
	assert.Contains(t, got[0].Messages[1].Content, "Level chosen by the learner: recall")
}

func TestFeedbackEmpty(t *testing.T) {
	srv, _ := completionServer(t, func(string) string { return " " })

	_, err := contentGenerator(srv.URL).Feedback(context.Background(), "Why?", "a", "b")
	assert.Equal(t, core.CodeGeneration, core.AsAppError(err).Code)
}
