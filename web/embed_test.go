package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"dist/index.html":    {Data: []byte("<html>shell</html>")},
		"dist/assets/app.js": {Data: []byte("console.log('app')")},
	}
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(w.Result().Body)
	return w.Code, string(body)
}

func TestSPAHandlerServesFiles(t *testing.T) {
	h := spaHandler(testFS(), "dist")

	code, body := get(t, h, "/assets/app.js")
	if code != http.StatusOK || !strings.Contains(body, "console.log") {
		t.Errorf("Expected asset, got %d %q", code, body)
	}
}

func TestSPAHandlerFallsBackToIndex(t *testing.T) {
	h := spaHandler(testFS(), "dist")

	for _, path := range []string{"/", "/profile", "/messages/u2"} {
		code, body := get(t, h, path)
		if code != http.StatusOK || !strings.Contains(body, "shell") {
			t.Errorf("%s: expected index shell, got %d %q", path, code, body)
		}
	}
}

func TestEmbeddedShellPresent(t *testing.T) {
	code, body := get(t, SPAHandler(), "/")
	if code != http.StatusOK || !strings.Contains(body, `<div id="root">`) {
		t.Errorf("Expected embedded index.html, got %d", code)
	}
}
