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
	"path/filepath"
	"strings"

	"github.com/mwat56/apachelogger"
)

// `resolveAlias()` maps the request path of a static location onto
// the filesystem: the route's prefix is stripped and the remainder
// joined to the alias directory.
//
// The joined (and thereby cleaned) result must stay inside the alias
// directory; any resolution escaping it — e.g. via `..` segments —
// is rejected.
//
// Parameters:
//   - `aRoute`: The matched static route.
//   - `aPath`: The (decoded) request path.
//
// Returns:
//   - `rName`: The resolved filesystem path.
//   - `rOK`: `false` if the resolution escapes the alias directory.
func resolveAlias(aRoute *TRoute, aPath string) (rName string, rOK bool) {
	rel := strings.TrimPrefix(aPath, aRoute.prefix)
	rName = filepath.Join(aRoute.target, filepath.FromSlash(rel))

	rOK = (rName == aRoute.target) ||
		strings.HasPrefix(rName, aRoute.target+string(filepath.Separator))
	if !rOK {
		rName = ""
	}

	return
} // resolveAlias()

// `serveAliasFile()` serves the single file `aFilename`, with
// ETag/If-Modified-Since handling.
//
// Missing files yield a 404, permission problems and directory
// requests a 403 — all dispatched through the error-page writer.
//
// Parameters:
//   - `aWriter`: The substituting writer to respond through.
//   - `aRequest`: The incoming HTTP request.
//   - `aFilename`: The filesystem path of the file to serve.
func serveAliasFile(aWriter *tErrorWriter, aRequest *http.Request, aFilename string) {
	fileInfo, err := os.Stat(aFilename)
	if nil != err {
		if os.IsNotExist(err) {
			aWriter.serveError(http.StatusNotFound)
			return
		}
		apachelogger.Err("WebGate/serveAliasFile",
			fmt.Sprintf("stat(%q): %v", aFilename, err))
		aWriter.serveError(http.StatusForbidden)
		return
	}
	if fileInfo.IsDir() {
		// No directory listings.
		aWriter.serveError(http.StatusForbidden)
		return
	}

	file, err := os.Open(aFilename) //#nosec G304
	if nil != err {
		apachelogger.Err("WebGate/serveAliasFile",
			fmt.Sprintf("open(%q): %v", aFilename, err))
		aWriter.serveError(http.StatusForbidden)
		return
	}
	defer file.Close()

	aWriter.Header().Set("Etag",
		fmt.Sprintf(`"%x-%x"`, fileInfo.ModTime().Unix(), fileInfo.Size()))
	http.ServeContent(aWriter, aRequest, fileInfo.Name(),
		fileInfo.ModTime(), file)
} // serveAliasFile()

// `serveStatic()` handles a request matched by a static location.
//
// Parameters:
//   - `aWriter`: The substituting writer to respond through.
//   - `aRequest`: The incoming HTTP request.
//   - `aRoute`: The matched static route.
func serveStatic(aWriter *tErrorWriter, aRequest *http.Request, aRoute *TRoute) {
	filename, ok := resolveAlias(aRoute, aRequest.URL.Path)
	if !ok {
		apachelogger.Err("WebGate/serveStatic",
			fmt.Sprintf("Path traversal attempt: %q", aRequest.URL.Path))
		aWriter.serveError(http.StatusForbidden)
		return
	}

	serveAliasFile(aWriter, aRequest, filename)
} // serveStatic()

/* _EoF_ */
