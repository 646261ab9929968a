package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_HasURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{name: "Empty", url: "", expected: false},
		{name: "Whitespace", url: "   ", expected: false},
		{name: "Set", url: "https://repo.example.com/apps.json", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Source{ID: "src-1", URL: tt.url}
			assert.Equal(t, tt.expected, s.HasURL())
		})
	}
}

func TestSource_DisplayName(t *testing.T) {
	named := Source{ID: "src-1", Name: "Main Repo", URL: "https://a.example.com"}
	assert.Equal(t, "Main Repo", named.DisplayName())

	unnamed := Source{ID: "src-2", URL: "https://b.example.com"}
	assert.Equal(t, "https://b.example.com", unnamed.DisplayName())

	bare := Source{ID: "src-3"}
	assert.Equal(t, "src-3", bare.DisplayName())
}

func TestFetchOutcome_OK(t *testing.T) {
	assert.False(t, FetchOutcome{Source: Source{ID: "a"}}.OK())
	assert.True(t, FetchOutcome{Source: Source{ID: "a"}, Repository: &Repository{}}.OK())
}
