package markdown

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	Analysis  QuestionType = "analysis"
	Synthesis QuestionType = "synthesis"
)

type Question struct {
	Type    QuestionType `json:"type"`
	Content string       `json:"content"`
}

var studySteps = []string{
	"Start with the analysis questions to build a basic understanding.",
	"Move on to the synthesis questions for deeper learning.",
	"Answer each question, then assess yourself against its evaluation points.",
	"Use the writing tips to improve your answers.",
}

// FormatQuestions lays out a question set as a markdown document:
// analysis questions first, then synthesis, then a fixed study plan.
// Questions of any other type are left out.
func FormatQuestions(topic string, questions []Question) string {
	var analysis, synthesis []string
	for _, q := range questions {
		content := strings.TrimSpace(q.Content)
		if content == "" {
			continue
		}
		switch q.Type {
		case Analysis:
			analysis = append(analysis, content)
		case Synthesis:
			synthesis = append(synthesis, content)
		}
	}

	var b strings.Builder
	b.WriteString("# Generated Questions\n\n")
	if topic = strings.TrimSpace(topic); topic != "" {
		fmt.Fprintf(&b, "_Topic: %s_\n\n", topic)
	}

	writeSection(&b, "Analysis Questions", analysis)
	writeSection(&b, "Synthesis Questions", synthesis)

	b.WriteString("## Study Order and Feedback Strategy\n\n")
	for i, step := range studySteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n\n", i+1, item)
	}
}
