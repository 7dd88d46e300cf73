package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	cases := []struct {
		in    string
		value int
		valid bool
	}{
		{"10", 10, true},
		{"  42", 42, true},
		{"\t\n7", 7, true},
		{"+3", 3, true},
		{"-5", -5, true},
		{"0", 0, true},
		{"12abc", 12, true},
		{"3.9", 3, true},
		{"007", 7, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"+-1", 0, false},
		{" - 1", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, c := range cases {
		got := ParseCount(c.in)
		assert.Equal(t, Count{Value: c.value, Valid: c.valid}, got, "input %q", c.in)
	}
}

func TestRequestEncoding(t *testing.T) {
	body, err := json.Marshal(Request{Topic: "Go", NumQuestions: ParseCount("5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"Go","num_questions":5}`, string(body))

	body, err = json.Marshal(Request{Topic: "Go", NumQuestions: ParseCount("five")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"Go","num_questions":null}`, string(body))
}

func TestFlagTruthiness(t *testing.T) {
	cases := map[string]bool{
		`true`:  true,
		`false`: false,
		`null`:  false,
		`0`:     false,
		`2`:     true,
		`""`:    false,
		`"no"`:  true,
		`{}`:    true,
		`[]`:    true,
	}
	for raw, want := range cases {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"success":`+raw+`}`), &r), raw)
		assert.Equal(t, want, bool(r.Success), raw)
	}
}
