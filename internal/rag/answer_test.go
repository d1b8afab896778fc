package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groupedAnswer = `Most teams moved to Dagster [1]. Airflow is still common [1] and dbt handles tests [2].

Citations:
[1] Airflow or Dagster? [[p1]]
[2] dbt tests [[p2]]

<<How long did the migration take?>>
<<Does Dagster support backfills?>>
<<Which dbt packages help with tests?>>`

func TestParseAnswer(t *testing.T) {
	answer := ParseAnswer(groupedAnswer)

	assert.Equal(t, "Most teams moved to Dagster [1]. Airflow is still common [1] and dbt handles tests [2].", answer.Body)
	assert.Equal(t, []Citation{
		{Number: 1, Title: "Airflow or Dagster?", PostID: "p1"},
		{Number: 2, Title: "dbt tests", PostID: "p2"},
	}, answer.Citations)
	assert.Equal(t, []string{
		"How long did the migration take?",
		"Does Dagster support backfills?",
		"Which dbt packages help with tests?",
	}, answer.FollowUps)
	assert.Equal(t, []int{1, 2}, answer.Markers())
	assert.NoError(t, answer.Validate())
	assert.False(t, answer.IsFallback())
}

func TestParseAnswer_NoCitationBlock(t *testing.T) {
	answer := ParseAnswer(FallbackAnswer + "\n<<a>>\n<<b>>\n<<c>>")

	assert.Equal(t, FallbackAnswer, answer.Body)
	assert.Empty(t, answer.Citations)
	assert.Len(t, answer.FollowUps, 3)
	assert.True(t, answer.IsFallback())
	assert.NoError(t, answer.Validate())
}

func TestParseAnswer_SkipsMalformedCitationLines(t *testing.T) {
	answer := ParseAnswer("Body [1].\nCitations:\n[1] Title [[p1]]\nnot a citation\n[x] Bad [[p2]]")

	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "p1", answer.Citations[0].PostID)
}

func TestAnswer_Validate(t *testing.T) {
	followUps := []string{"a", "b", "c"}

	tests := []struct {
		name    string
		answer  Answer
		wantErr string
	}{
		{
			name: "two numbers for one post",
			answer: Answer{
				Body:      "x [1] y [2]",
				Citations: []Citation{{Number: 1, PostID: "p1"}, {Number: 2, PostID: "p1"}},
				FollowUps: followUps,
			},
			wantErr: "post p1 is cited as both [1] and [2]",
		},
		{
			name: "one number for two posts",
			answer: Answer{
				Body:      "x [1]",
				Citations: []Citation{{Number: 1, PostID: "p1"}, {Number: 1, PostID: "p2"}},
				FollowUps: followUps,
			},
			wantErr: "citation [1] refers to both p1 and p2",
		},
		{
			name: "marker not listed",
			answer: Answer{
				Body:      "x [1] y [3]",
				Citations: []Citation{{Number: 1, PostID: "p1"}},
				FollowUps: followUps,
			},
			wantErr: "citation [3] is used but not listed",
		},
		{
			name: "wrong follow-up count",
			answer: Answer{
				Body:      "x [1]",
				Citations: []Citation{{Number: 1, PostID: "p1"}},
				FollowUps: []string{"a"},
			},
			wantErr: "expected 3 follow-up questions, got 1",
		},
		{
			name: "repeated citation line",
			answer: Answer{
				Body:      "x [1]",
				Citations: []Citation{{Number: 1, PostID: "p1"}, {Number: 1, PostID: "p1"}},
				FollowUps: followUps,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.answer.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
