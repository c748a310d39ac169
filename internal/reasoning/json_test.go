package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONResponse(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Status string `json:"status"`
		Score  int    `json:"score"`
	}

	err := DecodeJSON("```json\n{\"status\":\"Completed\",\"score\":88}\n```", &v)
	require.NoError(t, err)
	assert.Equal(t, "Completed", v.Status)
	assert.Equal(t, 88, v.Score)
}

func TestDecodeJSONFailures(t *testing.T) {
	var v map[string]interface{}

	assert.Error(t, DecodeJSON("", &v), "empty response must error")
	assert.Error(t, DecodeJSON("```\n```", &v), "fence with no payload must error")
	assert.Error(t, DecodeJSON("I am not JSON, sorry.", &v), "prose must error")
}
