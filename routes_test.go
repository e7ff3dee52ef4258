/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package webgate

//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func Test_newRouteTable(t *testing.T) {
	static := map[string]string{
		"/static": "/srv/static",
		"/media":  "/srv/media",
	}
	errorPages := map[int]string{
		403: "/srv/errors/403.html",
		404: "/srv/errors/404.html",
		500: "/srv/errors/500.html",
	}

	routes := newRouteTable(static, errorPages, "/run/backend.sock")

	if 6 != len(routes) {
		t.Fatalf("newRouteTable() returned %d routes, want 6", len(routes))
	}
	// Most specific first: error aliases, then /static, /media, then /
	for idx := 1; idx < len(routes); idx++ {
		if len(routes[idx-1].prefix) < len(routes[idx].prefix) {
			t.Errorf("Routes out of order: %q before %q",
				routes[idx-1].prefix, routes[idx].prefix)
		}
	}
	if "/" != routes[5].prefix || rkProxy != routes[5].kind {
		t.Errorf("Catch-all route wrong: %q kind %d",
			routes[5].prefix, routes[5].kind)
	}

	// Without a backend socket there is no catch-all
	routes = newRouteTable(static, nil, "")
	if 2 != len(routes) {
		t.Errorf("newRouteTable() returned %d routes, want 2", len(routes))
	}
} // Test_newRouteTable()

func Test_routeMatch(t *testing.T) {
	routes := newRouteTable(
		map[string]string{
			"/static": "/srv/static",
			"/media":  "/srv/media",
		},
		map[int]string{
			404: "/srv/errors/404.html",
		},
		"/run/backend.sock")

	tests := []struct {
		name       string
		path       string
		wantPrefix string
		wantKind   tRouteKind
	}{
		{"Root", "/", "/", rkProxy},
		{"AppPage", "/models/123/", "/", rkProxy},
		{"StaticAsset", "/static/css/site.css", "/static", rkStatic},
		{"StaticExact", "/static", "/static", rkStatic},
		{"MediaAsset", "/media/uploads/mesh.glb", "/media", rkStatic},
		{"ErrorAliasWinsOverCatchAll", "/404.html", "/404.html", rkErrorPage},
		{"RawPrefixSemantics", "/staticXY", "/static", rkStatic},

		// TODO: Add test cases.
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := routes.match(tt.path)
			if nil == got {
				t.Fatalf("match(%q) = nil, want %q", tt.path, tt.wantPrefix)
			}
			if got.prefix != tt.wantPrefix {
				t.Errorf("match(%q) prefix = %q, want %q",
					tt.path, got.prefix, tt.wantPrefix)
			}
			if got.kind != tt.wantKind {
				t.Errorf("match(%q) kind = %d, want %d",
					tt.path, got.kind, tt.wantKind)
			}
		})
	}

	// An empty table matches nothing
	var empty tRouteList
	if nil != empty.match("/whatever") {
		t.Error("match() on empty table returned a route")
	}
} // Test_routeMatch()

// `newTestConfig()` builds a gateway configuration backed by
// throw-away directories: one static location, the three customary
// error pages, and a backend socket path inside the temp dir.
func newTestConfig(t *testing.T) *TGateConfig {
	tmpDir := t.TempDir()

	staticDir := filepath.Join(tmpDir, "static")
	if err := os.MkdirAll(filepath.Join(staticDir, "css"), 0755); nil != err {
		t.Fatalf("Failed to create static dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "css", "site.css"),
		[]byte("body { margin: 0 }"), 0644); nil != err {
		t.Fatalf("Failed to write asset: %v", err)
	}

	errDir := filepath.Join(tmpDir, "errors")
	if err := os.MkdirAll(errDir, 0755); nil != err {
		t.Fatalf("Failed to create errors dir: %v", err)
	}
	pages := map[int]string{}
	for _, status := range []int{403, 404, 500} {
		filename := filepath.Join(errDir, http.StatusText(status)+".html")
		body := "custom " + http.StatusText(status) + " page"
		if err := os.WriteFile(filename, []byte(body), 0644); nil != err {
			t.Fatalf("Failed to write error page: %v", err)
		}
		pages[status] = filename
	}

	gc := &TGateConfig{
		ServerName:    "www.example.com",
		BackendSocket: filepath.Join(tmpDir, "backend.sock"),
		errorPages:    pages,
	}
	gc.routes = newRouteTable(
		map[string]string{"/static": staticDir},
		pages, gc.BackendSocket)

	return gc
} // newTestConfig()

// `startBackend()` serves `aHandler` on the unix domain socket
// `aSocket` until the test ends.
func startBackend(t *testing.T, aSocket string, aHandler http.Handler) {
	listener, err := net.Listen("unix", aSocket)
	if nil != err {
		t.Fatalf("Failed to listen on %q: %v", aSocket, err)
	}

	server := &http.Server{Handler: aHandler}
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(func() { _ = server.Close() })
} // startBackend()

func TestTRouter_ServeHTTP(t *testing.T) {
	gc := newTestConfig(t)
	startBackend(t, gc.BackendSocket,
		http.HandlerFunc(func(aWriter http.ResponseWriter, aRequest *http.Request) {
			switch aRequest.URL.Path {
			case "/missing":
				http.Error(aWriter, "backend's own 404 body",
					http.StatusNotFound)
			default:
				aWriter.Header().Set("X-Backend", "yes")
				aWriter.WriteHeader(http.StatusOK)
				_, _ = aWriter.Write([]byte("backend answering " +
					aRequest.URL.Path))
			}
		}))

	router := NewRouter(gc)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"StaticFile", "/static/css/site.css",
			http.StatusOK, "body { margin: 0 }"},
		{"StaticMissing", "/static/css/nope.css",
			http.StatusNotFound, "custom Not Found page"},
		{"StaticTraversal", "/static/../../../etc/passwd",
			http.StatusForbidden, "custom Forbidden page"},
		{"ErrorPageAlias", "/404.html",
			http.StatusOK, "custom Not Found page"},
		{"ProxiedRequest", "/models/abc/",
			http.StatusOK, "backend answering /models/abc/"},
		{"BackendErrorSubstituted", "/missing",
			http.StatusNotFound, "custom Not Found page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("ServeHTTP(%q) status = %d, want %d",
					tt.path, rr.Code, tt.wantStatus)
			}
			if rr.Body.String() != tt.wantBody {
				t.Errorf("ServeHTTP(%q) body = %q, want %q",
					tt.path, rr.Body.String(), tt.wantBody)
			}
		})
	}

	t.Run("NoRouteConfigured", func(t *testing.T) {
		// A table without the catch-all: nothing matches `/nope`
		bare := &TGateConfig{errorPages: gc.errorPages}
		bare.routes = newRouteTable(nil, nil, "")
		bareRouter := NewRouter(bare)

		req := httptest.NewRequest("GET", "/nope", nil)
		rr := httptest.NewRecorder()
		bareRouter.ServeHTTP(rr, req)

		if http.StatusNotFound != rr.Code {
			t.Errorf("ServeHTTP() status = %d, want 404", rr.Code)
		}
		if "custom Not Found page" != rr.Body.String() {
			t.Errorf("ServeHTTP() body = %q, want the configured page",
				rr.Body.String())
		}
	})
} // TestTRouter_ServeHTTP()

/* _EoF_ */
