package storage

import "time"

// Generation is the record of one call to the generate endpoint
type Generation struct {
	ID              string    `bson:"_id" json:"id"`
	Topic           string    `bson:"topic" json:"topic"`
	NumQuestions    int       `bson:"num_questions" json:"num_questions"`
	Success         bool      `bson:"success" json:"success"`
	Error           string    `bson:"error,omitempty" json:"error,omitempty"`
	ErrorCode       string    `bson:"error_code,omitempty" json:"error_code,omitempty"`
	QuestionsLength int       `bson:"questions_length" json:"questions_length"`
	DurationMs      int64     `bson:"duration_ms" json:"duration_ms"`
	RequestID       string    `bson:"request_id,omitempty" json:"request_id,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

type GenerationStorage interface {
	SaveGeneration(generation *Generation) error
	// RecentGenerations returns at most limit records, newest first
	RecentGenerations(limit int) ([]Generation, error)
	Close() error
}
