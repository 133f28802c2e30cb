package gitlab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchProjectFile_SendsTokenAndEncodesPath(t *testing.T) {
	var gotPath, gotToken, gotRef string
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		gotPath = r.URL.EscapedPath()
		gotToken = r.Header.Get("PRIVATE-TOKEN")
		gotRef = r.URL.Query().Get("ref")
		w.Write([]byte(`{"elements":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token")
	body, err := c.FetchProjectFile(context.Background(), "67327904", "docs/likec4.json", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) == "" {
		t.Fatalf("empty body")
	}
	if gotToken != "secret-token" {
		t.Fatalf("token header not sent, got %q", gotToken)
	}
	if gotRef != "main" {
		t.Fatalf("ref should default to main, got %q", gotRef)
	}
	if want := "/api/v4/projects/67327904/repository/files/docs%2Flikec4.json/raw"; gotPath != want {
		t.Fatalf("file path not encoded: got %q want %q", gotPath, want)
	}

	// Second fetch is served from cache.
	if _, err := c.FetchProjectFile(context.Background(), "67327904", "docs/likec4.json", ""); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", hits)
	}

	c.Invalidate()
	if _, err := c.FetchProjectFile(context.Background(), "67327904", "docs/likec4.json", ""); err != nil {
		t.Fatalf("fetch after invalidate: %v", err)
	}
	if hits != 2 {
		t.Fatalf("invalidate should force a refetch, got %d hits", hits)
	}
}

func TestFetch_AuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.FetchURL(context.Background(), srv.URL+"/raw/likec4.json")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.FetchURL(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatalf("expected an error for 404")
	}
}

func TestFetchProjectFile_RequiredArgs(t *testing.T) {
	c := New("", "")
	if _, err := c.FetchProjectFile(context.Background(), "", "likec4.json", "main"); err == nil {
		t.Fatalf("expected an error without a project")
	}
	if _, err := c.FetchProjectFile(context.Background(), "1", "", "main"); err == nil {
		t.Fatalf("expected an error without a file path")
	}
}
