/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/

// Package webgate implements a minimal TLS-terminating gateway in
// front of a single backend application: static asset locations and
// custom error pages are served from disk, everything else is
// reverse-proxied to the backend over a unix domain socket, and the
// plaintext port only redirects to HTTPS.
//
// The configuration is loaded once at startup and is immutable while
// serving; all per-request state is confined to the connection's own
// goroutine.
package webgate

//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"net/http"
)

type (
	// `TGateHandler` is the gateway's secure-port page handler: it
	// simply fronts the router which dispatches to the static file
	// server, the error-page aliases, or the backend proxy.
	TGateHandler struct {
		_      struct{}
		router *TRouter
	}
)

// `ServeHTTP()` is the main entry point for the gateway: every
// decrypted request passes through here into the router.
//
// Parameters:
//   - `aWriter`: The `ResponseWriter` to write HTTP response headers
//     and body.
//   - `aRequest`: The request containing all the details of the
//     incoming HTTP request.
func (gh *TGateHandler) ServeHTTP(aWriter http.ResponseWriter, aRequest *http.Request) {
	gh.router.ServeHTTP(aWriter, aRequest)
} // ServeHTTP()

// `New()` creates a new instance of `TGateHandler` with the provided
// configuration data.
//
// Parameters:
//   - `aConfig`: A pointer to the gateway configuration.
//
// Returns:
//   - `*TGateHandler`: A pointer to a new instance of `TGateHandler`.
func New(aConfig *TGateConfig) *TGateHandler {
	return &TGateHandler{
		router: NewRouter(aConfig),
	}
} // New()

/* _EoF_ */
