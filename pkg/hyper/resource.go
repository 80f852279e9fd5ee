package hyper

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Resource is the single node type of a hypermedia resource graph. A
// node holds a URI template, a human-readable label, and a lazily
// loaded schema: the first accessor on an unloaded node performs
// exactly one network round trip through the shared Session, and every
// later accessor is a pure read of the memoized schema.
//
// Verb dispatch methods (Head, Fetch, Post, ...) never mutate the node
// they are invoked on; each returns a brand-new node wrapping the
// response, so earlier-loaded nodes stay referentially stable.
type Resource struct {
	session Session
	url     string
	label   string

	// mu guards the one-time Unloaded -> Loaded transition so that
	// concurrent first accesses trigger at most one fetch. A failed
	// fetch leaves the node unloaded and retryable.
	mu     sync.Mutex
	loaded bool
	fields map[string]Value
	items  []*Resource
	isList bool
}

// New creates an unloaded resource at the given URL (which may be a URI
// template). The session is shared by every node derived from this one.
func New(session Session, url, label string) *Resource {
	return &Resource{
		session: session,
		url:     url,
		label:   label,
	}
}

// newLoadedResource creates a resource directly from an object payload
// already in hand. The node starts loaded; no fetch is ever needed. If
// the payload carries a "url" field, the node is homed there.
func newLoadedResource(session Session, data map[string]interface{}, label string) *Resource {
	fields := parseObject(session, data)

	resource := &Resource{
		session: session,
		label:   label,
		loaded:  true,
		fields:  fields,
	}

	if target, ok := rehomeURL(fields); ok {
		resource.url = target
	}

	return resource
}

// URL returns the node's URI template (possibly still containing
// variables), or an empty string for nodes built purely from payloads.
func (r *Resource) URL() string {
	return r.url
}

// Label returns the node's human-readable name.
func (r *Resource) Label() string {
	return r.label
}

// Loaded reports whether the schema has been fetched.
func (r *Resource) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loaded
}

// Variables returns the unresolved template variable names declared by
// the node's URL.
func (r *Resource) Variables() ([]string, error) {
	if r.url == "" {
		return nil, nil
	}

	return templateVariables(r.url)
}

// EnsureLoaded makes the node's single load transition observable: if
// the schema is not yet loaded it performs one GET and memoizes the
// result. It is safe for concurrent use; only one fetch ever wins.
func (r *Resource) EnsureLoaded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	fetched, err := r.dispatch(ctx, http.MethodGet, nil)
	if err != nil {
		return err
	}

	r.fields = fetched.fields
	r.items = fetched.items
	r.isList = fetched.isList
	r.loaded = true

	return nil
}

// Get ensures the node is loaded and returns the value stored at key.
// For sequence schemas the key is interpreted as a positional index.
// A missing key yields a KeyNotFoundError.
func (r *Resource) Get(ctx context.Context, key string) (Value, error) {
	err := r.EnsureLoaded(ctx)
	if err != nil {
		return Value{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isList {
		index, convErr := strconv.Atoi(key)
		if convErr != nil || index < 0 || index >= len(r.items) {
			return Value{}, &KeyNotFoundError{Key: key}
		}

		return Value{Kind: KindResource, Resource: r.items[index]}, nil
	}

	value, ok := r.fields[key]
	if !ok {
		return Value{}, &KeyNotFoundError{Key: key}
	}

	return value, nil
}

// Keys ensures the node is loaded and returns the field names of the
// schema. Mapping schemas are reported in sorted order for stable
// output, but callers must not rely on any particular order; sequence
// schemas report positional indices.
func (r *Resource) Keys(ctx context.Context) ([]string, error) {
	err := r.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isList {
		keys := make([]string, len(r.items))
		for i := range r.items {
			keys[i] = strconv.Itoa(i)
		}

		return keys, nil
	}

	keys := make([]string, 0, len(r.fields))
	for key := range r.fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys, nil
}

// Items ensures the node is loaded and returns the ordered sequence of
// child resources when the underlying payload was a list, or nil for a
// mapping schema.
func (r *Resource) Items(ctx context.Context) ([]*Resource, error) {
	err := r.EnsureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isList {
		return nil, nil
	}

	items := make([]*Resource, len(r.items))
	copy(items, r.items)

	return items, nil
}

// Invoke is the default "call" shorthand: a GET with no extra arguments.
func (r *Resource) Invoke(ctx context.Context) (*Resource, error) {
	return r.Fetch(ctx, nil)
}

// Head issues a HEAD request and returns a new resource for the response.
func (r *Resource) Head(ctx context.Context, opts *RequestOptions, args ...string) (*Resource, error) {
	return r.Do(ctx, http.MethodHead, opts, args...)
}

// Fetch issues a GET request and returns a new resource for the
// response. (The name Get is taken by keyed schema lookup.)
func (r *Resource) Fetch(ctx context.Context, opts *RequestOptions, args ...string) (*Resource, error) {
	return r.Do(ctx, http.MethodGet, opts, args...)
}

// Post issues a POST request and returns a new resource for the response.
func (r *Resource) Post(ctx context.Context, opts *RequestOptions, args ...string) (*Resource, error) {
	return r.Do(ctx, http.MethodPost, opts, args...)
}

// Put issues a PUT request and returns a new resource for the response.
func (r *Resource) Put(ctx context.Context, opts *RequestOptions, args ...string) (*Resource, error) {
	return r.Do(ctx, http.MethodPut, opts, args...)
}

// Patch issues a PATCH request and returns a new resource for the response.
func (r *Resource) Patch(ctx context.Context, opts *RequestOptions, args ...string) (*Resource, error) {
	return r.Do(ctx, http.MethodPatch, opts, args...)
}

// Delete issues a DELETE request and returns a new resource for the response.
func (r *Resource) Delete(ctx context.Context, opts *RequestOptions, args ...string) (*Resource, error) {
	return r.Do(ctx, http.MethodDelete, opts, args...)
}

// Options issues an OPTIONS request and returns a new resource for the response.
func (r *Resource) Options(ctx context.Context, opts *RequestOptions, args ...string) (*Resource, error) {
	return r.Do(ctx, http.MethodOptions, opts, args...)
}

// Do resolves the node's URI template and dispatches one request with
// the given method. Named template arguments ride in opts.Bindings; at
// most one positional argument is accepted and only when the template
// declares exactly one variable. Anything else is ambiguous and fails
// fast rather than guessing a binding.
func (r *Resource) Do(ctx context.Context, method string, opts *RequestOptions, args ...string) (*Resource, error) {
	if r.session == nil {
		return nil, ErrNilSession
	}

	if r.url == "" {
		return nil, ErrNoURL
	}

	variables, err := templateVariables(r.url)
	if err != nil {
		return nil, err
	}

	bindings := make(map[string]string)

	if opts != nil {
		for name, value := range opts.Bindings {
			bindings[name] = value
		}
	}

	if len(args) > 0 {
		if len(args) != 1 || len(variables) != 1 {
			return nil, &AmbiguousBindingError{Variables: variables, Args: len(args)}
		}

		bindings[variables[0]] = args[0]
	}

	resolved, err := expandTemplate(r.url, bindings)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method: method,
		URL:    resolved,
	}

	if opts != nil {
		req.Headers = opts.Headers
		req.Query = opts.Query
		req.Body = opts.Body
	}

	resp, err := r.session.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sending %s %s: %w", method, resolved, err)
	}

	statusErr := handleStatus(resp.StatusCode, resp.Body)
	if statusErr != nil {
		return nil, statusErr
	}

	fields, items, isList, err := parseBody(r.session, resp.Body, r.label)
	if err != nil {
		return nil, err
	}

	result := &Resource{
		session: r.session,
		url:     resolved,
		label:   r.label,
		loaded:  true,
		fields:  fields,
		items:   items,
		isList:  isList,
	}

	if !isList {
		if target, ok := rehomeURL(fields); ok {
			result.url = target
		}
	}

	return result, nil
}

// dispatch is EnsureLoaded's fetch path. The caller holds r.mu; the
// request itself goes through Do on a detached copy so the lock is not
// held recursively.
func (r *Resource) dispatch(ctx context.Context, method string, opts *RequestOptions) (*Resource, error) {
	detached := &Resource{
		session: r.session,
		url:     r.url,
		label:   r.label,
	}

	return detached.Do(ctx, method, opts)
}

// String renders a short description of the node. It never triggers a
// fetch: formatting must not do I/O.
func (r *Resource) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := r.label
	if label == "" {
		label = "Resource"
	}

	switch {
	case !r.loaded:
		return fmt.Sprintf("<Hyperwalk %s(unloaded)>", label)
	case r.isList:
		return fmt.Sprintf("<Hyperwalk %s(%d)>", label, len(r.items))
	default:
		keys := make([]string, 0, len(r.fields))
		for key := range r.fields {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		return fmt.Sprintf("<Hyperwalk %s(%s)>", label, strings.Join(keys, ", "))
	}
}
