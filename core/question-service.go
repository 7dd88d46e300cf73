package core

import "context"

// QuestionService produces a markdown formatted question set on a topic
type QuestionService interface {
	Generate(ctx context.Context, topic string, count int) (string, error)
}
