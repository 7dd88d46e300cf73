package ai

import (
	"Quizzy/markdown"
	"fmt"
	"strings"
)

const systemPrompt = "You are an education expert who writes open-ended study questions. " +
	"Always answer with a single JSON object and nothing else."

var questionKinds = map[markdown.QuestionType][]string{
	markdown.Analysis: {
		"comparative analysis",
		"causal analysis",
		"impact analysis",
		"pattern analysis",
		"relationship analysis",
	},
	markdown.Synthesis: {
		"proposing a new solution",
		"developing an alternative approach",
		"presenting an integrated perspective",
		"practical application",
		"innovative ideas",
	},
}

// split divides count questions between analysis and synthesis,
// giving the odd one to analysis
func split(count int) (analysis, synthesis int) {
	synthesis = count / 2
	return count - synthesis, synthesis
}

func questionsPrompt(topic string, count int) string {
	analysis, synthesis := split(count)

	return fmt.Sprintf(`Write %d study questions about the topic below.

- %d must be analysis questions. Vary them across: %s.
- %d must be synthesis questions. Vary them across: %s.
- Each question is one or two sentences and can be answered in a short essay.
- Do not number the questions and do not repeat one.

Respond ONLY with a JSON object of this shape:
{
  "questions": [
    {"type": "analysis", "content": "..."},
    {"type": "synthesis", "content": "..."}
  ]
}

Topic:
"""%s"""`,
		count,
		analysis, strings.Join(questionKinds[markdown.Analysis], ", "),
		synthesis, strings.Join(questionKinds[markdown.Synthesis], ", "),
		topic,
	)
}

func summaryPrompt(content string) string {
	return fmt.Sprintf(`Summarize the content below and extract its key topics.

Respond ONLY with a JSON object of this shape:
{"summary": "a summary of the whole content", "topics": ["topic 1", "topic 2", "topic 3"]}

Content:
"""%s"""`, content)
}

func chunkSummaryPrompt(chunk string) string {
	return fmt.Sprintf(`Briefly summarize this piece of a longer text and extract its main topics.

Respond ONLY with a JSON object of this shape:
{"summary": "a summary of two or three sentences", "topics": ["topic 1", "topic 2"]}

Text:
"""%s"""`, chunk)
}

func compressPrompt(summary string) string {
	return fmt.Sprintf("Compress the following summary into two or three sentences:\n\n%s", summary)
}

func conceptQuestionsPrompt(summary string, topics []string) string {
	var list strings.Builder
	for _, topic := range topics {
		fmt.Fprintf(&list, "- %s\n", topic)
	}

	return fmt.Sprintf(`Using the summary and key topics below, write 3 questions that each assess a different key concept of the content.

Every question asks which of five options is closest to one key concept. Each option is itself a meaningful question and carries a proximity score from 0 to 100.

Respond ONLY with a JSON object of this shape:
{
  "questions": [
    {
      "question": "Which of the options below is closest to the first key concept of the content?",
      "options": {
        "A": {"question": "...", "proximity": 85},
        "B": {"question": "...", "proximity": 70},
        "C": {"question": "...", "proximity": 60},
        "D": {"question": "...", "proximity": 45},
        "E": {"question": "...", "proximity": 30}
      },
      "answer": "A",
      "explanation": {
        "correct": "why the answer is closest to the key concept",
        "incorrect": "why the other options drift away from it"
      }
    }
  ]
}

Rules:
1. Proximity scores are integers out of 100.
2. The answer is the option with the highest proximity.
3. The explanation makes the differences in proximity clear.
4. The three questions cover different key concepts.

Summary:
%s

Key topics:
%s`, summary, list.String())
}

func feedbackPrompt(question, gptLevel, userLevel string) string {
	return fmt.Sprintf(`Question: %s
Level judged by the model: %s
Level chosen by the learner: %s

Write friendly, educational feedback about this difference.`, question, gptLevel, userLevel)
}

const (
	feedbackSystemPrompt = "You are a patient tutor who explains the reasoning behind question levels."
	compressSystemPrompt = "You condense study notes without losing their key concepts."
)
