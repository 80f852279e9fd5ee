// Package hyper implements a generic client for hypermedia-style JSON
// APIs: APIs that embed navigation links as fields in their responses
// rather than exposing a fixed schema.
//
// # Overview
//
// The package turns API responses into a graph of Resource nodes. Any
// field whose name ends in "_url" is treated as a link to a related
// resource; nested objects and arrays become navigable child nodes; and
// everything else stays plain data. Nodes are lazy: a node created from
// a URL fetches its schema exactly once, on first access, and memoizes
// it for every later read.
//
// Getting a root node
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/hyperwalk-io/hyperwalk/pkg/hyper"
//	  "github.com/hyperwalk-io/hyperwalk/pkg/hyperclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := hyperclient.New(&hyper.Config{RootURL: "https://api.github.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Follow the "emojis_url" link lazily.
//	  emojis, err := cli.Root().Get(ctx, "emojis")
//	  if err != nil { log.Fatal(err) }
//	  _ = emojis
//	}
//
// # Templates and verbs
//
// A node's URL may be an RFC 6570 URI template. Verb methods (Head,
// Fetch, Post, Put, Patch, Delete, Options) expand the template from
// named bindings in RequestOptions, or from a single positional
// argument when the template declares exactly one variable, and return
// a brand-new node for the response. The receiver is never mutated.
//
// # Errors
//
// HTTP failures map onto ClientError (4xx) and ServerError (5xx), both
// carrying the status code and raw body. A key missing from a loaded
// schema is a KeyNotFoundError; an unrepresentable response body is a
// MalformedResponseError; and a positional argument that cannot be
// bound unambiguously is an AmbiguousBindingError. Helpers such as
// IsNotFound and IsServerError make it easy to branch on these cases.
//
// # Transport
//
// Nodes talk to the network only through the narrow Session interface.
// The internal/http package provides the production implementation
// (retries, bearer auth, interceptors, optional ETag response caching);
// tests can substitute a stub. The package also exposes the generic
// building blocks the transport composes: request/response interceptors
// and a pluggable Cache (memory, NATS KV, chain).
package hyper
