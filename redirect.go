/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package webgate

//lint:file-ignore ST1005 - I prefer Capitalisation
//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"fmt"
	"net"
	"net/http"

	"github.com/mwat56/apachelogger"
)

type (
	// `TRedirectHandler` answers every plaintext request with a
	// permanent redirect to the HTTPS equivalent URL.
	//
	// No request body is read or proxied on this path; malformed
	// request lines never reach the handler (the HTTP server layer
	// already rejects them with a 400).
	TRedirectHandler struct {
		_          struct{}
		serverName string
	}
)

// `hostOnly()` strips an optional port from `aHost`.
func hostOnly(aHost string) string {
	if host, _, err := net.SplitHostPort(aHost); nil == err {
		return host
	}

	return aHost
} // hostOnly()

// `ServeHTTP()` responds with `301 Moved Permanently` pointing at
// `https://<host><original-path>`.
//
// The configured server name wins as redirect target host; without
// one the request's own `Host` header is used (port stripped). A
// request providing neither draws a `400 Bad Request`.
//
// Parameters:
//   - `aWriter`: The `ResponseWriter` to write HTTP response headers
//     and body.
//   - `aRequest`: The request containing all the details of the
//     incoming HTTP request.
func (rh *TRedirectHandler) ServeHTTP(aWriter http.ResponseWriter, aRequest *http.Request) {
	host := rh.serverName
	if "" == host {
		host = hostOnly(aRequest.Host)
	}
	if "" == host {
		apachelogger.Err("WebGate/redirect",
			fmt.Sprintf("No target host for %q", aRequest.URL.Path))
		http.Error(aWriter, "Bad Request", http.StatusBadRequest)
		return
	}

	http.Redirect(aWriter, aRequest,
		"https://"+host+aRequest.URL.RequestURI(),
		http.StatusMovedPermanently)
} // ServeHTTP()

// `NewRedirector()` creates the handler for the plaintext port.
//
// Parameters:
//   - `aConfig`: A pointer to the gateway configuration.
//
// Returns:
//   - `*TRedirectHandler`: A pointer to a new instance of
//     `TRedirectHandler`.
func NewRedirector(aConfig *TGateConfig) *TRedirectHandler {
	return &TRedirectHandler{
		serverName: aConfig.ServerName,
	}
} // NewRedirector()

/* _EoF_ */
