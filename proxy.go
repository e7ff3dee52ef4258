/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package webgate

//lint:file-ignore ST1005 - I prefer Capitalisation
//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/mwat56/apachelogger"
)

// `newBackendProxy()` creates the reverse proxy forwarding requests
// to the backend over its unix domain socket.
//
// The returned proxy speaks plain HTTP/1.1 on the socket, strips
// hop-by-hop headers, and streams the backend's response through
// without buffering. A client disconnect cancels the in-flight
// backend request via the request context, which closes the backend
// connection as well.
//
// Backend failures — the socket missing, refusing the connection, or
// collapsing mid-response — are answered with a `502 Bad Gateway`
// through the error-page substitution. There is exactly one
// connection attempt per request: no retries, no backend pool.
//
// Parameters:
//   - `aConfig`: A pointer to the gateway configuration.
//
// Returns:
//   - `*httputil.ReverseProxy`: A pointer to the configured proxy
//     instance.
func newBackendProxy(aConfig *TGateConfig) *httputil.ReverseProxy {
	socketPath := aConfig.BackendSocket

	// The URL's host part is never dialled (the transport below
	// always dials the socket), it merely names the backend in
	// outgoing request URLs.
	proxy := httputil.NewSingleHostReverseProxy(&url.URL{
		Scheme: "http",
		Host:   "backend",
	})

	proxy.Transport = &http.Transport{
		DialContext: func(aCtx context.Context, _, _ string) (net.Conn, error) {
			dialer := net.Dialer{Timeout: time.Second << 2}
			return dialer.DialContext(aCtx, "unix", socketPath)
		},
		IdleConnTimeout: 90 * time.Second,
		MaxIdleConns:    8, // single backend, keep a few sockets warm
	}

	// Negative: flush to the client as data arrives, so streaming
	// backend responses aren't held back.
	proxy.FlushInterval = -1

	proxy.ErrorHandler = func(aWriter http.ResponseWriter, aRequest *http.Request, aErr error) {
		apachelogger.Err("WebGate/backendProxy",
			fmt.Sprintf("Backend %q: %v", socketPath, aErr))

		if ew, ok := aWriter.(*tErrorWriter); ok {
			ew.serveError(http.StatusBadGateway)
			return
		}
		http.Error(aWriter, http.StatusText(http.StatusBadGateway),
			http.StatusBadGateway)
	}

	return proxy
} // newBackendProxy()

/* _EoF_ */
