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
	"sort"
	"strings"

	"github.com/mwat56/apachelogger"
)

type (
	// `tRouteKind` tells the router how to serve a matched location.
	tRouteKind uint8

	// `TRoute` pairs a request path prefix with its serving target.
	//
	// The target's meaning depends on the route's kind: a directory
	// for static locations, a file for error-page aliases, and the
	// backend's socket path for proxied locations.
	// Routes are immutable after configuration load.
	TRoute struct {
		prefix string
		kind   tRouteKind
		target string
	}

	// `tRouteList` is the ordered route table, most specific
	// (i.e. longest) prefix first.
	tRouteList []TRoute
)

const (
	rkStatic tRouteKind = iota + 1
	rkErrorPage
	rkProxy
)

// `newRouteTable()` builds the ordered route table from the
// configured locations.
//
// Every error-page file becomes an exact alias route (so e.g.
// `/404.html` is directly requestable), every static mapping a
// prefix route, and the backend socket the catch-all `/` route.
// The table is sorted by descending prefix length which makes the
// linear scan in `match()` a longest-prefix match: exact aliases
// win over `/static` and `/media`, which in turn win over `/`.
//
// Parameters:
//   - `aStatic`: Mapping of path prefixes to directories.
//   - `aErrorPages`: Mapping of HTTP status codes to page files.
//   - `aSocketPath`: The backend's unix domain socket path.
//
// Returns:
//   - `tRouteList`: The ordered route table.
func newRouteTable(aStatic map[string]string, aErrorPages map[int]string, aSocketPath string) tRouteList {
	routes := make(tRouteList, 0, len(aStatic)+len(aErrorPages)+1)

	for prefix, dir := range aStatic {
		if "" == prefix {
			continue
		}
		routes = append(routes, TRoute{
			prefix: prefix,
			kind:   rkStatic,
			target: dir,
		})
	}

	for status, page := range aErrorPages {
		routes = append(routes, TRoute{
			prefix: fmt.Sprintf("/%d.html", status),
			kind:   rkErrorPage,
			target: page,
		})
	}

	if "" != aSocketPath {
		routes = append(routes, TRoute{
			prefix: "/",
			kind:   rkProxy,
			target: aSocketPath,
		})
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].prefix) > len(routes[j].prefix)
	})

	return routes
} // newRouteTable()

// `match()` performs the longest-prefix match of `aPath` against
// the route table.
//
// Prefixes match raw (nginx location semantics): `/static` matches
// `/static/css/site.css` as well as `/staticXY`.
//
// Parameters:
//   - `aPath`: The (decoded) request path to match.
//
// Returns:
//   - `*TRoute`: The matched route, `nil` if no route matches.
func (rl tRouteList) match(aPath string) *TRoute {
	for idx := range rl {
		if strings.HasPrefix(aPath, rl[idx].prefix) {
			return &rl[idx]
		}
	}

	return nil
} // match()

// ---------------------------------------------------------------------------

type (
	// `TRouter` is the gateway's request dispatcher.
	//
	// It matches each request's path against the route table and
	// hands the request to the static file server, an error-page
	// alias, or the backend proxy; responses carrying a configured
	// error status get their body substituted with the respective
	// error page.
	TRouter struct {
		_     struct{}
		conf  *TGateConfig
		proxy http.Handler
	}
)

// `ServeHTTP()` dispatches the incoming request according to the
// route table.
//
// Parameters:
//   - `aWriter`: The `ResponseWriter` to write HTTP response headers
//     and body.
//   - `aRequest`: The request containing all the details of the
//     incoming HTTP request.
func (rt *TRouter) ServeHTTP(aWriter http.ResponseWriter, aRequest *http.Request) {
	// All downstream handlers write through the substituting
	// writer so that configured error statuses (403/404/5xx) get
	// the custom page body regardless of who produced the status.
	ew := newErrorWriter(aWriter, rt.conf)

	route := rt.conf.Routes().match(aRequest.URL.Path)
	if nil == route {
		apachelogger.Err("WebGate/ServeHTTP",
			fmt.Sprintf("No route for %q", aRequest.URL.Path))
		ew.serveError(http.StatusNotFound)
		return
	}

	switch route.kind {
	case rkStatic:
		serveStatic(ew, aRequest, route)

	case rkErrorPage:
		// A directly requested error page is an ordinary document.
		serveAliasFile(ew, aRequest, route.target)

	case rkProxy:
		rt.proxy.ServeHTTP(ew, aRequest)

	default:
		apachelogger.Err("WebGate/ServeHTTP",
			fmt.Sprintf("Unknown route kind %d for %q",
				route.kind, route.prefix))
		ew.serveError(http.StatusInternalServerError)
	}
} // ServeHTTP()

// `NewRouter()` creates the gateway's dispatcher for the given
// configuration.
//
// Parameters:
//   - `aConfig`: A pointer to the gateway configuration.
//
// Returns:
//   - `*TRouter`: A pointer to a new instance of `TRouter`.
func NewRouter(aConfig *TGateConfig) *TRouter {
	return &TRouter{
		conf:  aConfig,
		proxy: newBackendProxy(aConfig),
	}
} // NewRouter()

/* _EoF_ */
