package hyper

import (
	"fmt"

	"github.com/yosida95/uritemplate/v3"
)

// templateVariables parses a URI template and returns the variable names
// it declares, in declaration order.
func templateVariables(raw string) ([]string, error) {
	tpl, err := uritemplate.New(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing URI template %q: %w", raw, err)
	}

	return tpl.Varnames(), nil
}

// expandTemplate substitutes bindings into a URI template, percent-encoding
// values per RFC 6570. Unbound variables are omitted from the output; they
// never cause an error.
func expandTemplate(raw string, bindings map[string]string) (string, error) {
	tpl, err := uritemplate.New(raw)
	if err != nil {
		return "", fmt.Errorf("parsing URI template %q: %w", raw, err)
	}

	values := make(uritemplate.Values, len(bindings))
	for name, value := range bindings {
		values[name] = uritemplate.String(value)
	}

	expanded, err := tpl.Expand(values)
	if err != nil {
		return "", fmt.Errorf("expanding URI template %q: %w", raw, err)
	}

	return expanded, nil
}
