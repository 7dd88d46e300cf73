package core

import "context"

type ContentType string

const (
	ContentText    ContentType = "text"
	ContentPDF     ContentType = "pdf"
	ContentImage   ContentType = "image"
	ContentYouTube ContentType = "youtube"
	ContentWebsite ContentType = "website"
)

type Summary struct {
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

// ConceptOption is one candidate of a concept question with its closeness
// to the key concept, 0 to 100
type ConceptOption struct {
	Question  string `json:"question"`
	Proximity int    `json:"proximity"`
}

type ConceptExplanation struct {
	Correct   string `json:"correct"`
	Incorrect string `json:"incorrect"`
}

// ConceptQuestion asks which option is closest to one key concept of the content
type ConceptQuestion struct {
	Question    string                   `json:"question"`
	Options     map[string]ConceptOption `json:"options"`
	Answer      string                   `json:"answer"`
	Explanation ConceptExplanation       `json:"explanation"`
}

type ProcessResult struct {
	Summary   string            `json:"summary"`
	Topics    []string          `json:"topics"`
	Questions []ConceptQuestion `json:"questions"`
}

// ContentService turns study material into concept questions and explains
// differences between the model's and the learner's judgement
type ContentService interface {
	Process(ctx context.Context, content string) (*ProcessResult, error)
	Feedback(ctx context.Context, question, gptLevel, userLevel string) (string, error)
}
