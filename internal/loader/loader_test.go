package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	pkgloader "github.com/NamazuStudios/elements-formgen/pkg/loader"
)

const specJSON = `{"id":"spec-1","name":"Profile","properties":[{"name":"nickname","type":"STRING","required":true}]}`

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spec.json")
	if err := os.WriteFile(path, []byte(specJSON), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(pkgloader.NewLoaderOptions())
	doc, err := l.Load(context.Background(), pkgloader.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != specJSON {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("location = %q, want %q", doc.Location(), path)
	}
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{"specs/profile.json": {Data: []byte(specJSON)}}

	l := New(pkgloader.NewLoaderOptions(pkgloader.WithFileSystem(files)))
	doc, err := l.Load(context.Background(), pkgloader.SourceFromFS("specs/profile.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != specJSON {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := New(pkgloader.NewLoaderOptions()).Load(context.Background(), pkgloader.SourceFromFS("specs/profile.json")); err == nil {
		t.Fatalf("expected error without a filesystem")
	}
}

func TestLoadHTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Elements-SessionSecret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(specJSON))
	}))
	defer srv.Close()

	l := New(pkgloader.NewLoaderOptions(
		pkgloader.WithHTTPClient(srv.Client()),
		pkgloader.WithHeader("Elements-SessionSecret", "secret"),
	))
	doc, err := l.Load(context.Background(), pkgloader.SourceFromURL(srv.URL+"/spec.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != specJSON {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	anonymous := New(pkgloader.NewLoaderOptions(pkgloader.WithHTTPClient(srv.Client())))
	_, err = anonymous.Load(context.Background(), pkgloader.SourceFromURL(srv.URL+"/spec.json"))
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected unauthorized status error, got %v", err)
	}
}

func TestLoadHTTPDisabled(t *testing.T) {
	t.Parallel()

	l := New(pkgloader.NewLoaderOptions())
	if _, err := l.Load(context.Background(), pkgloader.SourceFromURL("https://example.com/spec.json")); err == nil {
		t.Fatalf("expected http disabled error")
	}
}

func TestLoadCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(pkgloader.NewLoaderOptions())
	if _, err := l.Load(ctx, pkgloader.SourceFromFile("spec.json")); err == nil {
		t.Fatalf("expected context error")
	}
}
