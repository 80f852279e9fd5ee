package hyper

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hyperwalk-io/hyperwalk/internal/constants"
)

// Kind identifies what a schema field holds.
type Kind int

const (
	// KindScalar is a plain JSON value: string, number, bool, or null.
	KindScalar Kind = iota

	// KindResource is a single child resource: either an unloaded link or
	// a nested object already in hand.
	KindResource

	// KindResourceList is an ordered sequence of child resources.
	KindResourceList
)

// Value is the tagged variant stored under each schema key. Exactly one
// of Scalar, Resource, or List is meaningful, selected by Kind.
type Value struct {
	Kind     Kind
	Scalar   interface{}
	Resource *Resource
	List     []*Resource
}

// parseBody decodes a fetched body into a schema fragment. An empty body
// loads as an empty object so callers always receive a valid schema. Any
// top-level shape other than object or array is fatal: the graph has no
// representation for it.
func parseBody(session Session, body []byte, label string) (map[string]Value, []*Resource, bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]Value{}, nil, false, nil
	}

	var decoded interface{}

	err := json.Unmarshal(body, &decoded)
	if err != nil {
		return nil, nil, false, &MalformedResponseError{Body: body}
	}

	switch value := decoded.(type) {
	case map[string]interface{}:
		return parseObject(session, value), nil, false, nil
	case []interface{}:
		items, ok := parseList(session, value, label)
		if !ok {
			return nil, nil, false, &MalformedResponseError{Body: body}
		}

		return nil, items, true, nil
	default:
		return nil, nil, false, &MalformedResponseError{Body: body}
	}
}

// parseObject turns a decoded JSON object into a schema mapping:
//   - a key ending in the link suffix with a non-empty string value
//     becomes an unloaded child resource at that URL, stored under the
//     key with the suffix stripped; an empty link stays a plain scalar
//   - a nested object becomes a loaded child resource (the data is
//     already in hand, no fetch needed)
//   - a nested array of objects becomes an ordered sequence of loaded
//     child resources labeled with the singular form of the key
//   - everything else is kept as a scalar
func parseObject(session Session, data map[string]interface{}) map[string]Value {
	schema := make(map[string]Value, len(data))

	for key, raw := range data {
		if strings.HasSuffix(key, constants.LinkSuffix) {
			name := strings.TrimSuffix(key, constants.LinkSuffix)

			target, ok := raw.(string)
			if ok && target != "" {
				schema[name] = Value{Kind: KindResource, Resource: New(session, target, humanizeLabel(name))}
			} else {
				schema[name] = Value{Kind: KindScalar, Scalar: raw}
			}

			continue
		}

		switch value := raw.(type) {
		case map[string]interface{}:
			schema[key] = Value{Kind: KindResource, Resource: newLoadedResource(session, value, humanizeLabel(key))}
		case []interface{}:
			items, ok := parseList(session, value, key)
			if ok {
				schema[key] = Value{Kind: KindResourceList, List: items}
			} else {
				// Arrays holding non-object elements have no node
				// representation; keep them as plain data.
				schema[key] = Value{Kind: KindScalar, Scalar: value}
			}
		default:
			schema[key] = Value{Kind: KindScalar, Scalar: value}
		}
	}

	return schema
}

// parseList turns a decoded JSON array into an ordered sequence of loaded
// resources, one per element, each labeled with the singular form of the
// originating key. It reports false when any element is not an object.
func parseList(session Session, data []interface{}, key string) ([]*Resource, bool) {
	label := singularLabel(key)
	items := make([]*Resource, 0, len(data))

	for _, element := range data {
		object, ok := element.(map[string]interface{})
		if !ok {
			return nil, false
		}

		items = append(items, newLoadedResource(session, object, label))
	}

	return items, true
}

// rehomeURL returns the URL a node constructed from this schema should
// live at: the string under the reserved "url" key, if present.
func rehomeURL(fields map[string]Value) (string, bool) {
	value, ok := fields[constants.URLKey]
	if !ok || value.Kind != KindScalar {
		return "", false
	}

	target, ok := value.Scalar.(string)
	if !ok || target == "" {
		return "", false
	}

	return target, true
}
