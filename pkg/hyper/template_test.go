package hyper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateVariables(t *testing.T) {
	t.Parallel()
	t.Run("plain URL has no variables", func(t *testing.T) {
		t.Parallel()

		variables, err := templateVariables("https://api.example.com/emojis")
		require.NoError(t, err)
		assert.Empty(t, variables)
	})

	t.Run("path and query variables are reported", func(t *testing.T) {
		t.Parallel()

		variables, err := templateVariables("https://api.example.com/repos/{owner}/{repo}{?page,per_page}")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"owner", "repo", "page", "per_page"}, variables)
	})

	t.Run("invalid template is an error", func(t *testing.T) {
		t.Parallel()

		_, err := templateVariables("https://api.example.com/{unclosed")
		require.Error(t, err)
	})
}

func TestExpandTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		bindings map[string]string
		expected string
	}{
		{
			name:     "path variables",
			raw:      "https://x/repos/{owner}/{repo}",
			bindings: map[string]string{"owner": "a", "repo": "b"},
			expected: "https://x/repos/a/b",
		},
		{
			name:     "query variables",
			raw:      "https://x/search{?q}",
			bindings: map[string]string{"q": "golang"},
			expected: "https://x/search?q=golang",
		},
		{
			name:     "unbound variables are omitted",
			raw:      "https://x/search{?q,page}",
			bindings: map[string]string{"q": "golang"},
			expected: "https://x/search?q=golang",
		},
		{
			name:     "values are percent-encoded",
			raw:      "https://x/search{?q}",
			bindings: map[string]string{"q": "hello world"},
			expected: "https://x/search?q=hello%20world",
		},
		{
			name:     "no bindings leaves a plain URL alone",
			raw:      "https://x/emojis",
			bindings: nil,
			expected: "https://x/emojis",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			expanded, err := expandTemplate(testCase.raw, testCase.bindings)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, expanded)
		})
	}
}
