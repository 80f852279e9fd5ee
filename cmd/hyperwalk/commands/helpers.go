package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hyperwalk-io/hyperwalk/internal/constants"
	"github.com/hyperwalk-io/hyperwalk/pkg/hyper"
	"github.com/hyperwalk-io/hyperwalk/pkg/hyperclient"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIRootRequired      = errors.New("API root is required (use --api or set HYPERWALK_API)")
	ErrInvalidBindingFormat = errors.New("invalid binding format, expected name=value")
	ErrPathEndsAtScalar     = errors.New("path ends at a plain value, not a resource")
	ErrListIndexRequired    = errors.New("list fields need a numeric index segment")
	ErrTokenRequired        = errors.New("token is required")
)

// stderrLogger adapts the verbose flag to the client's logger interface.
type stderrLogger struct{}

func (l *stderrLogger) log(level, message string, fields map[string]interface{}) {
	fmt.Fprintf(os.Stderr, "[%s] %s %v\n", level, message, fields)
}

func (l *stderrLogger) Debug(message string, fields map[string]interface{}) {
	l.log("DEBUG", message, fields)
}

func (l *stderrLogger) Info(message string, fields map[string]interface{}) {
	l.log("INFO", message, fields)
}

func (l *stderrLogger) Warn(message string, fields map[string]interface{}) {
	l.log("WARN", message, fields)
}

func (l *stderrLogger) Error(message string, fields map[string]interface{}) {
	l.log("ERROR", message, fields)
}

// newClient builds a client from the resolved configuration.
func newClient() (*hyperclient.Client, error) {
	api := viper.GetString("api")
	if api == "" {
		return nil, ErrAPIRootRequired
	}

	config := &hyper.Config{
		RootURL:     api,
		AccessToken: viper.GetString("token"),
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = &stderrLogger{}
	}

	client, err := hyperclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// parseBindings turns repeated name=value flags into a binding map.
func parseBindings(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	bindings := make(map[string]string, len(raw))

	for _, pair := range raw {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBindingFormat, pair)
		}

		bindings[name] = value
	}

	return bindings, nil
}

// resolvePath walks the resource graph from node along the given path
// segments. Each segment is a key lookup; numeric segments index into
// list fields.
func resolvePath(ctx context.Context, node *hyper.Resource, segments []string) (*hyper.Resource, error) {
	for i := 0; i < len(segments); i++ {
		value, err := node.Get(ctx, segments[i])
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", strings.Join(segments[:i+1], "/"), err)
		}

		switch value.Kind {
		case hyper.KindResource:
			node = value.Resource

		case hyper.KindResourceList:
			if i+1 >= len(segments) {
				return nil, fmt.Errorf("%w: %q", ErrListIndexRequired, segments[i])
			}

			i++

			index := 0
			if _, err := fmt.Sscanf(segments[i], "%d", &index); err != nil || index < 0 || index >= len(value.List) {
				return nil, fmt.Errorf("%w: %q has %d elements", ErrListIndexRequired, segments[i-1], len(value.List))
			}

			node = value.List[index]

		default:
			return nil, fmt.Errorf("%w: %q", ErrPathEndsAtScalar, segments[i])
		}
	}

	return node, nil
}

// splitPath accepts slash-separated path arguments and returns the
// individual segments.
func splitPath(args []string) []string {
	var segments []string

	for _, arg := range args {
		for _, segment := range strings.Split(arg, "/") {
			if segment != "" {
				segments = append(segments, segment)
			}
		}
	}

	return segments
}

// resourceDocument flattens a loaded resource into an ordered list of
// key/value rows plus a plain map for structured output.
func resourceDocument(ctx context.Context, resource *hyper.Resource) ([]string, map[string]interface{}, error) {
	keys, err := resource.Keys(ctx)
	if err != nil {
		return nil, nil, err
	}

	document := make(map[string]interface{}, len(keys))

	for _, key := range keys {
		value, err := resource.Get(ctx, key)
		if err != nil {
			return nil, nil, err
		}

		switch value.Kind {
		case hyper.KindResource:
			document[key] = value.Resource.String()
		case hyper.KindResourceList:
			document[key] = fmt.Sprintf("[%d items]", len(value.List))
		default:
			document[key] = value.Scalar
		}
	}

	return keys, document, nil
}

// renderResource prints a loaded resource in the selected output format.
func renderResource(ctx context.Context, resource *hyper.Resource) error {
	keys, document, err := resourceDocument(ctx, resource)
	if err != nil {
		return err
	}

	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(document)

	case constants.FormatYAML:
		return yaml.NewEncoder(os.Stdout).Encode(document)

	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Key", "Value")

		for _, key := range keys {
			_ = table.Append(key, fmt.Sprintf("%v", document[key]))
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

// renderKeys prints a key listing in the selected output format.
func renderKeys(keys []string) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(keys)

	case constants.FormatYAML:
		return yaml.NewEncoder(os.Stdout).Encode(keys)

	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Key")

		for _, key := range keys {
			_ = table.Append(key)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}
