package hyper_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperwalk-io/hyperwalk/pkg/hyper"
)

// MockSession implements hyper.Session with a programmable handler and
// a call counter for laziness proofs.
type MockSession struct {
	mu       sync.Mutex
	calls    int
	requests []*hyper.Request
	handler  func(req *hyper.Request) (*hyper.Response, error)
}

func (s *MockSession) Do(ctx context.Context, req *hyper.Request) (*hyper.Response, error) {
	s.mu.Lock()
	s.calls++
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	return s.handler(req)
}

func (s *MockSession) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func (s *MockSession) LastRequest() *hyper.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return nil
	}

	return s.requests[len(s.requests)-1]
}

func jsonSession(body string) *MockSession {
	return &MockSession{
		handler: func(req *hyper.Request) (*hyper.Response, error) {
			return &hyper.Response{StatusCode: 200, Body: []byte(body)}, nil
		},
	}
}

func TestResource_LazyLoad(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"name": "a", "items_url": "https://x/items"}`)
	resource := hyper.New(session, "https://x/root", "Root")

	assert.False(t, resource.Loaded())
	assert.Equal(t, 0, session.Calls())

	value, err := resource.Get(context.Background(), "name")
	require.NoError(t, err)
	assert.Equal(t, hyper.KindScalar, value.Kind)
	assert.Equal(t, "a", value.Scalar)
	assert.Equal(t, 1, session.Calls())
	assert.True(t, resource.Loaded())

	// Subsequent accessors are pure reads.
	_, err = resource.Get(context.Background(), "name")
	require.NoError(t, err)

	_, err = resource.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, session.Calls())
}

func TestResource_LinkClassification(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"items_url": "https://x/items", "name": "a"}`)
	resource := hyper.New(session, "https://x/root", "Root")

	value, err := resource.Get(context.Background(), "items")
	require.NoError(t, err)
	require.Equal(t, hyper.KindResource, value.Kind)
	assert.Equal(t, "https://x/items", value.Resource.URL())
	assert.False(t, value.Resource.Loaded())
	assert.Equal(t, "Items", value.Resource.Label())

	value, err = resource.Get(context.Background(), "name")
	require.NoError(t, err)
	assert.Equal(t, hyper.KindScalar, value.Kind)
	assert.Equal(t, "a", value.Scalar)

	// The raw link key is not a lookup key.
	_, err = resource.Get(context.Background(), "items_url")
	require.Error(t, err)
	assert.True(t, hyper.IsNotFound(err))
}

func TestResource_EmptyLinkSuppressed(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"next_url": null}`)
	resource := hyper.New(session, "https://x/root", "Root")

	value, err := resource.Get(context.Background(), "next")
	require.NoError(t, err)
	assert.Equal(t, hyper.KindScalar, value.Kind)
	assert.Nil(t, value.Scalar)
}

func TestResource_NestedObject(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"owner": {"login": "bob"}}`)
	resource := hyper.New(session, "https://x/root", "Root")

	value, err := resource.Get(context.Background(), "owner")
	require.NoError(t, err)
	require.Equal(t, hyper.KindResource, value.Kind)
	assert.True(t, value.Resource.Loaded())
	assert.Equal(t, "Owner", value.Resource.Label())

	// The nested data is already in hand: no extra fetch.
	login, err := value.Resource.Get(context.Background(), "login")
	require.NoError(t, err)
	assert.Equal(t, "bob", login.Scalar)
	assert.Equal(t, 1, session.Calls())
}

func TestResource_ArraySingularization(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"items": [{"id": 1}, {"id": 2}]}`)
	resource := hyper.New(session, "https://x/root", "Root")

	value, err := resource.Get(context.Background(), "items")
	require.NoError(t, err)
	require.Equal(t, hyper.KindResourceList, value.Kind)
	require.Len(t, value.List, 2)

	for _, item := range value.List {
		assert.True(t, item.Loaded())
		assert.Equal(t, "Item", item.Label())
	}

	id, err := value.List[1].Get(context.Background(), "id")
	require.NoError(t, err)
	assert.InEpsilon(t, 2.0, id.Scalar, 0.0001)
	assert.Equal(t, 1, session.Calls())
}

func TestResource_ScalarArrayStaysData(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"tags": ["a", "b"]}`)
	resource := hyper.New(session, "https://x/root", "Root")

	value, err := resource.Get(context.Background(), "tags")
	require.NoError(t, err)
	assert.Equal(t, hyper.KindScalar, value.Kind)
	assert.Equal(t, []interface{}{"a", "b"}, value.Scalar)
}

func TestResource_TemplateBinding(t *testing.T) {
	t.Parallel()
	t.Run("named bindings expand the template", func(t *testing.T) {
		t.Parallel()

		session := jsonSession(`{}`)
		resource := hyper.New(session, "https://x/repos/{owner}/{repo}", "Repository")

		_, err := resource.Fetch(context.Background(), &hyper.RequestOptions{
			Bindings: map[string]string{"owner": "a", "repo": "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://x/repos/a/b", session.LastRequest().URL)
	})

	t.Run("single positional argument binds the only variable", func(t *testing.T) {
		t.Parallel()

		session := jsonSession(`{}`)
		resource := hyper.New(session, "https://x/users/{user}", "User")

		_, err := resource.Fetch(context.Background(), nil, "octocat")
		require.NoError(t, err)
		assert.Equal(t, "https://x/users/octocat", session.LastRequest().URL)
	})

	t.Run("positional argument with two variables fails fast", func(t *testing.T) {
		t.Parallel()

		session := jsonSession(`{}`)
		resource := hyper.New(session, "https://x/repos/{owner}/{repo}", "Repository")

		_, err := resource.Fetch(context.Background(), nil, "a")
		require.Error(t, err)
		assert.True(t, hyper.IsAmbiguousBinding(err))
		assert.Equal(t, 0, session.Calls())
	})

	t.Run("unbound variables are omitted", func(t *testing.T) {
		t.Parallel()

		session := jsonSession(`{}`)
		resource := hyper.New(session, "https://x/search{?q}", "Search")

		_, err := resource.Fetch(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "https://x/search", session.LastRequest().URL)
	})
}

func TestResource_Variables(t *testing.T) {
	t.Parallel()

	resource := hyper.New(nil, "https://x/repos/{owner}/{repo}", "Repository")

	variables, err := resource.Variables()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"owner", "repo"}, variables)
}

func TestResource_EmptyBody(t *testing.T) {
	t.Parallel()

	session := jsonSession(``)
	resource := hyper.New(session, "https://x/root", "Root")

	keys, err := resource.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.True(t, resource.Loaded())
}

func TestResource_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "404 maps to a client error",
			statusCode: 404,
			body:       `{"message": "Not Found"}`,
			check: func(t *testing.T, err error) {
				t.Helper()

				clientErr := &hyper.ClientError{}
				require.ErrorAs(t, err, &clientErr)
				assert.Equal(t, 404, clientErr.StatusCode)
				assert.Contains(t, string(clientErr.Body), "Not Found")
				assert.True(t, hyper.IsNotFound(err))
			},
		},
		{
			name:       "500 maps to a server error",
			statusCode: 500,
			body:       `{"message": "boom"}`,
			check: func(t *testing.T, err error) {
				t.Helper()

				serverErr := &hyper.ServerError{}
				require.ErrorAs(t, err, &serverErr)
				assert.Equal(t, 500, serverErr.StatusCode)
				assert.True(t, hyper.IsServerError(err))
			},
		},
		{
			name:       "top-level scalar is malformed",
			statusCode: 200,
			body:       `42`,
			check: func(t *testing.T, err error) {
				t.Helper()

				assert.True(t, hyper.IsMalformedResponse(err))
			},
		},
		{
			name:       "invalid JSON is malformed",
			statusCode: 200,
			body:       `{"broken":`,
			check: func(t *testing.T, err error) {
				t.Helper()

				assert.True(t, hyper.IsMalformedResponse(err))
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			session := &MockSession{
				handler: func(req *hyper.Request) (*hyper.Response, error) {
					return &hyper.Response{StatusCode: testCase.statusCode, Body: []byte(testCase.body)}, nil
				},
			}
			resource := hyper.New(session, "https://x/root", "Root")

			_, err := resource.Keys(context.Background())
			testCase.check(t, err)
		})
	}
}

func TestResource_FailedFetchLeavesNodeRetryable(t *testing.T) {
	t.Parallel()

	session := &MockSession{}
	session.handler = func(req *hyper.Request) (*hyper.Response, error) {
		if session.Calls() == 1 {
			return &hyper.Response{StatusCode: 500, Body: []byte(`{}`)}, nil
		}

		return &hyper.Response{StatusCode: 200, Body: []byte(`{"ok": true}`)}, nil
	}

	resource := hyper.New(session, "https://x/root", "Root")

	_, err := resource.Get(context.Background(), "ok")
	require.Error(t, err)
	assert.False(t, resource.Loaded())

	value, err := resource.Get(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, true, value.Scalar)
	assert.Equal(t, 2, session.Calls())
}

func TestResource_VerbsReturnNewNodes(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"state": "done"}`)
	resource := hyper.New(session, "https://x/jobs/1", "Job")

	result, err := resource.Post(context.Background(), &hyper.RequestOptions{Body: map[string]string{"action": "run"}})
	require.NoError(t, err)
	require.NotSame(t, resource, result)
	assert.True(t, result.Loaded())
	assert.False(t, resource.Loaded())
	assert.Equal(t, http.MethodPost, session.LastRequest().Method)
}

func TestResource_RehomesOnURLField(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"url": "https://x/canonical", "name": "n"}`)
	resource := hyper.New(session, "https://x/alias", "Alias")

	result, err := resource.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://x/canonical", result.URL())
}

func TestResource_ListBody(t *testing.T) {
	t.Parallel()

	session := jsonSession(`[{"id": 1}, {"id": 2}]`)
	resource := hyper.New(session, "https://x/items", "Items")

	keys, err := resource.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, keys)

	items, err := resource.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Item", items[0].Label())

	value, err := resource.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, hyper.KindResource, value.Kind)

	_, err = resource.Get(context.Background(), "7")
	require.Error(t, err)
	assert.True(t, hyper.IsNotFound(err))
}

func TestResource_KeyNotFound(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"name": "a"}`)
	resource := hyper.New(session, "https://x/root", "Root")

	_, err := resource.Get(context.Background(), "missing")
	require.Error(t, err)

	keyErr := &hyper.KeyNotFoundError{}
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "missing", keyErr.Key)
	assert.True(t, hyper.IsNotFound(err))
}

func TestResource_RequestOverridesPassThrough(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{}`)
	resource := hyper.New(session, "https://x/root", "Root")

	query := url.Values{"page": []string{"2"}}
	_, err := resource.Fetch(context.Background(), &hyper.RequestOptions{
		Headers: map[string]string{"X-Custom": "v"},
		Query:   query,
		Body:    map[string]string{"k": "v"},
	})
	require.NoError(t, err)

	req := session.LastRequest()
	assert.Equal(t, "v", req.Headers["X-Custom"])
	assert.Equal(t, query, req.Query)
	assert.NotNil(t, req.Body)
}

func TestResource_ConcurrentFirstAccess(t *testing.T) {
	t.Parallel()

	session := &MockSession{
		handler: func(req *hyper.Request) (*hyper.Response, error) {
			time.Sleep(10 * time.Millisecond)

			return &hyper.Response{StatusCode: 200, Body: []byte(`{"n": 1}`)}, nil
		},
	}
	resource := hyper.New(session, "https://x/root", "Root")

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := resource.Get(context.Background(), "n")
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, session.Calls())
}

func TestResource_NoURL(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"owner": {"login": "bob"}}`)
	resource := hyper.New(session, "https://x/root", "Root")

	value, err := resource.Get(context.Background(), "owner")
	require.NoError(t, err)

	// The nested node has no URL of its own, so a verb dispatch on it
	// cannot work.
	_, err = value.Resource.Invoke(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, hyper.ErrNoURL))
}

func TestResource_String(t *testing.T) {
	t.Parallel()

	session := jsonSession(`{"b": 1, "a": 2}`)
	resource := hyper.New(session, "https://x/root", "Root")

	assert.Equal(t, "<Hyperwalk Root(unloaded)>", resource.String())

	require.NoError(t, resource.EnsureLoaded(context.Background()))
	assert.Equal(t, "<Hyperwalk Root(a, b)>", resource.String())
}
