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
	"net/http"
	"os"
	"strconv"

	"github.com/mwat56/apachelogger"
)

type (
	// `tErrorWriter` is a `ResponseWriter` that substitutes the body
	// of responses carrying a configured error status code with the
	// respective custom error page, preserving the status code.
	//
	// Statuses without a configured page pass through untouched, so
	// a backend's own error documents survive unless the gateway is
	// configured to replace them.
	tErrorWriter struct {
		http.ResponseWriter
		conf        *TGateConfig
		wroteHeader bool
		suppress    bool // body already substituted, swallow writes
	}
)

// `builtinErrorPage()` returns the minimal built-in error document
// used whenever no custom page is configured or readable.
func builtinErrorPage(aStatus int) []byte {
	text := http.StatusText(aStatus)

	return []byte(fmt.Sprintf("<html>\n<head><title>%d %s</title></head>\n"+
		"<body>\n<center><h1>%d %s</h1></center>\n"+
		"<hr><center>webgate</center>\n</body>\n</html>\n",
		aStatus, text, aStatus, text))
} // builtinErrorPage()

// `newErrorWriter()` wraps `aWriter` for error-page substitution.
//
// Parameters:
//   - `aWriter`: The client-facing `ResponseWriter` to wrap.
//   - `aConfig`: The gateway configuration holding the page mapping.
//
// Returns:
//   - `*tErrorWriter`: The wrapping writer.
func newErrorWriter(aWriter http.ResponseWriter, aConfig *TGateConfig) *tErrorWriter {
	return &tErrorWriter{
		ResponseWriter: aWriter,
		conf:           aConfig,
	}
} // newErrorWriter()

// `Flush()` forwards buffered data to the client; needed for
// streaming proxied responses.
func (ew *tErrorWriter) Flush() {
	if ew.suppress {
		return
	}
	if flusher, ok := ew.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
} // Flush()

// `serveError()` writes a complete error response for `aStatus`:
// the configured page file when present and readable, the built-in
// document otherwise.
//
// This is the sink for all gateway-generated errors (routing miss,
// path traversal, unreachable backend); it is a no-op once response
// headers have been written.
//
// Parameters:
//   - `aStatus`: The HTTP error status code to respond with.
func (ew *tErrorWriter) serveError(aStatus int) {
	if ew.wroteHeader {
		return
	}
	ew.wroteHeader, ew.suppress = true, true

	body := builtinErrorPage(aStatus)
	if page := ew.conf.ErrorPage(aStatus); "" != page {
		if data, err := os.ReadFile(page); nil == err { //#nosec G304
			body = data
		} else {
			apachelogger.Err("WebGate/serveError",
				fmt.Sprintf("Can't read error page %q: %v", page, err))
		}
	}

	header := ew.Header()
	header.Del("Content-Encoding")
	header.Del("Etag")
	header.Del("Last-Modified")
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Content-Length", strconv.Itoa(len(body)))
	ew.ResponseWriter.WriteHeader(aStatus)
	_, _ = ew.ResponseWriter.Write(body)
} // serveError()

// `Unwrap()` exposes the client-facing writer to
// `http.ResponseController`.
func (ew *tErrorWriter) Unwrap() http.ResponseWriter {
	return ew.ResponseWriter
} // Unwrap()

// `Write()` forwards the response body, dropping it if the body was
// substituted by an error page.
func (ew *tErrorWriter) Write(aData []byte) (int, error) {
	if !ew.wroteHeader {
		ew.WriteHeader(http.StatusOK)
	}
	if ew.suppress {
		// Pretend success so the producing handler keeps its
		// normal control flow.
		return len(aData), nil
	}

	return ew.ResponseWriter.Write(aData)
} // Write()

// `WriteHeader()` sends the response status, substituting the body
// of configured error statuses with the custom page.
func (ew *tErrorWriter) WriteHeader(aStatus int) {
	if ew.wroteHeader {
		return
	}
	if (400 <= aStatus) && ("" != ew.conf.ErrorPage(aStatus)) {
		ew.serveError(aStatus)
		return
	}

	ew.wroteHeader = true
	ew.ResponseWriter.WriteHeader(aStatus)
} // WriteHeader()

/* _EoF_ */
