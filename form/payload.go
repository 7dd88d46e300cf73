package form

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Count is the question count as the browser's parseInt would see it.
// An input without a leading integer yields an invalid Count, which is
// still sent and encodes as JSON null, like JSON.stringify(NaN).
type Count struct {
	Value int
	Valid bool
}

// ParseCount reads a base-10 integer prefix: leading whitespace is skipped,
// one optional sign is accepted, and parsing stops at the first non-digit.
func ParseCount(s string) Count {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsAt := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsAt {
		return Count{}
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of int range
		return Count{}
	}
	return Count{Value: n, Valid: true}
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

func (c Count) String() string {
	if !c.Valid {
		return "NaN"
	}
	return strconv.Itoa(c.Value)
}

type Request struct {
	Topic        string `json:"topic"`
	NumQuestions Count  `json:"num_questions"`
}

// Response is the server answer. Questions is nil when the field is
// missing, which is an error on the success path.
type Response struct {
	Success   Flag    `json:"success"`
	Questions *string `json:"questions,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Flag decodes any JSON value with JavaScript truthiness, so a server that
// answers "success": 1 or "success": "yes" is still read as a success
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(t)
	case float64:
		*f = t != 0
	case string:
		*f = t != ""
	default:
		*f = true
	}
	return nil
}
