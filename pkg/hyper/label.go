package hyper

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// humanizeLabel renders a schema key as a human-readable label: snake_case
// and camelCase become spaced words with the first word capitalized
// ("pull_requests" -> "Pull requests"). Labels are for display only and
// never affect lookup keys.
func humanizeLabel(key string) string {
	spaced := strcase.ToDelimited(key, ' ')
	if spaced == "" {
		return ""
	}

	runes := []rune(spaced)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// singularLabel derives the label for elements of a list field: the key is
// singularized before being humanized ("items" -> "Item").
func singularLabel(key string) string {
	// Singularize the last word only, so "closed_issues" -> "Closed issue".
	words := strings.Split(key, "_")
	words[len(words)-1] = inflection.Singular(words[len(words)-1])

	return humanizeLabel(strings.Join(words, "_"))
}
