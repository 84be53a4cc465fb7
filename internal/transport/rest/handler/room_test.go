package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://quiz.example/?room=ABCDEF", JoinURL("https://quiz.example", "ABCDEF"))
}

func TestParseLimit(t *testing.T) {
	cases := map[string]int{
		"":           defaultListLimit,
		"?limit=5":   5,
		"?limit=0":   defaultListLimit,
		"?limit=-3":  defaultListLimit,
		"?limit=x":   defaultListLimit,
		"?limit=1e9": defaultListLimit,
		"?limit=500": maxListLimit,
	}
	for query, want := range cases {
		r := httptest.NewRequest("GET", "/v1/admin/results"+query, nil)
		assert.Equal(t, want, parseLimit(r), query)
	}
}
