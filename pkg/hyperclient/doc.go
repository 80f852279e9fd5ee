// Package hyperclient provides the primary entry point for constructing a
// client for hypermedia-style JSON APIs.
//
// It layers configuration, HTTP transport, and authentication on top of the
// resource graph defined in the hyper package. Most applications should
// import hyperclient to build a client, then walk the graph from Root().
//
// Quick start
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
//
//	  // Minimal: just a root endpoint (no auth).
//	  cli, err := hyperclient.New(&hyper.Config{RootURL: "https://api.github.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = hyperclient.NewWithToken("https://api.github.com", "ghp_...")
//	  if err != nil { log.Fatal(err) }
//
//	  // Walk the graph. The first accessor on a node triggers its single
//	  // fetch; everything after that is in-memory.
//	  emojis, err := cli.Root().Get(ctx, "emojis")
//	  if err != nil { log.Fatal(err) }
//
//	  keys, err := emojis.Resource.Keys(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = keys
//	}
//
// # Authentication
//
// New picks a token manager from the credential mix in hyper.Config: a
// static AccessToken wins, then ClientID/ClientSecret (client_credentials
// grant), then Username/Password (password grant, requires TokenURL). With
// no credentials the client sends unauthenticated requests.
//
// # Caching
//
// Setting Config.Cache enables ETag conditional caching of GET responses
// at the transport. See hyper.NewMemoryCache and hyper.NewNATSKVCache.
package hyperclient
