package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/storage"
)

func testRouter(t *testing.T) (http.Handler, *storage.FileStore) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), "/static")
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	app := &handlers.App{Logger: zerolog.Nop()}
	return NewRouter(app, RouterOptions{JWTSecret: "test-secret", Blobs: store}), store
}

func TestStaticServesStoredBlob(t *testing.T) {
	router, store := testRouter(t)

	payload := []byte("\x89PNG\r\n\x1a\nfake")
	if _, err := store.Write(context.Background(), "itineraries/i1/cover.png", payload); err != nil {
		t.Fatalf("write blob: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/itineraries/i1/cover.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Fatal("body does not match stored blob")
	}
}

func TestStaticMissingBlobIs404(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/itineraries/nope.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStaticRejectsTraversal(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/../../etc/passwd", nil))

	if rec.Code == http.StatusOK {
		t.Fatalf("status = %d, traversal must not be served", rec.Code)
	}
}
