package hyper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected string
	}{
		{"emojis", "Emojis"},
		{"pull_requests", "Pull requests"},
		{"currentUser", "Current user"},
		{"id", "Id"},
		{"", ""},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, humanizeLabel(testCase.key))
		})
	}
}

func TestSingularLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected string
	}{
		{"items", "Item"},
		{"repositories", "Repository"},
		{"closed_issues", "Closed issue"},
		{"people", "Person"},
		{"data", "Datum"},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, singularLabel(testCase.key))
		})
	}
}
