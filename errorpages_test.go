/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package webgate

//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func Test_tErrorWriter_WriteHeader(t *testing.T) {
	tmpDir := t.TempDir()
	page404 := filepath.Join(tmpDir, "404.html")
	if err := os.WriteFile(page404,
		[]byte("the configured 404 page"), 0644); nil != err {
		t.Fatalf("Failed to write error page: %v", err)
	}

	conf := &TGateConfig{
		errorPages: map[int]string{404: page404},
	}

	t.Run("SubstitutesConfiguredStatus", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ew := newErrorWriter(rr, conf)

		ew.WriteHeader(http.StatusNotFound)
		_, _ = ew.Write([]byte("handler body that must vanish"))

		if http.StatusNotFound != rr.Code {
			t.Errorf("status = %d, want 404", rr.Code)
		}
		if "the configured 404 page" != rr.Body.String() {
			t.Errorf("body = %q, want the configured page", rr.Body.String())
		}
		if "text/html; charset=utf-8" != rr.Header().Get("Content-Type") {
			t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
		}
	})

	t.Run("PassesUnconfiguredStatusThrough", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ew := newErrorWriter(rr, conf)

		ew.WriteHeader(http.StatusTeapot)
		_, _ = ew.Write([]byte("backend's own error document"))

		if http.StatusTeapot != rr.Code {
			t.Errorf("status = %d, want 418", rr.Code)
		}
		if "backend's own error document" != rr.Body.String() {
			t.Errorf("body = %q, want the original body", rr.Body.String())
		}
	})

	t.Run("PassesSuccessThrough", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ew := newErrorWriter(rr, conf)

		_, _ = ew.Write([]byte("ordinary content"))

		if http.StatusOK != rr.Code {
			t.Errorf("status = %d, want 200", rr.Code)
		}
		if "ordinary content" != rr.Body.String() {
			t.Errorf("body = %q", rr.Body.String())
		}
	})

	t.Run("IgnoresSecondHeader", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ew := newErrorWriter(rr, conf)

		ew.WriteHeader(http.StatusOK)
		ew.WriteHeader(http.StatusNotFound)

		if http.StatusOK != rr.Code {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})
} // Test_tErrorWriter_WriteHeader()

func Test_tErrorWriter_serveError(t *testing.T) {
	tmpDir := t.TempDir()
	page500 := filepath.Join(tmpDir, "500.html")
	if err := os.WriteFile(page500,
		[]byte("the configured 500 page"), 0644); nil != err {
		t.Fatalf("Failed to write error page: %v", err)
	}

	tests := []struct {
		name       string
		pages      map[int]string
		status     int
		wantStatus int
		wantBody   string
	}{
		{"ConfiguredPage",
			map[int]string{500: page500},
			http.StatusInternalServerError,
			http.StatusInternalServerError,
			"the configured 500 page"},
		{"BadGatewayUsesServerErrorPage",
			map[int]string{500: page500},
			http.StatusBadGateway,
			http.StatusBadGateway,
			"the configured 500 page"},
		{"BuiltinFallback",
			nil,
			http.StatusNotFound,
			http.StatusNotFound,
			"404 Not Found"},
		{"UnreadablePageFallsBack",
			map[int]string{404: filepath.Join(tmpDir, "gone.html")},
			http.StatusNotFound,
			http.StatusNotFound,
			"404 Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			ew := newErrorWriter(rr, &TGateConfig{errorPages: tt.pages})

			ew.serveError(tt.status)

			if rr.Code != tt.wantStatus {
				t.Errorf("serveError() status = %d, want %d",
					rr.Code, tt.wantStatus)
			}
			if !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("serveError() body = %q, want it to contain %q",
					rr.Body.String(), tt.wantBody)
			}
		})
	}

	t.Run("NoOpAfterHeadersSent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		ew := newErrorWriter(rr, &TGateConfig{})

		ew.WriteHeader(http.StatusOK)
		ew.serveError(http.StatusInternalServerError)

		if http.StatusOK != rr.Code {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})
} // Test_tErrorWriter_serveError()

/* _EoF_ */
