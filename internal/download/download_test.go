package download

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestListAddGroupsByOrigin(t *testing.T) {
	l := NewList()
	if err := l.Add(Entry{URL: "https://a.example/1.jar", Path: "/tmp/1.jar"}); err != nil {
		t.Fatal(err)
	}
	if err := l.Add(Entry{URL: "https://a.example/2.jar", Path: "/tmp/2.jar"}); err != nil {
		t.Fatal(err)
	}
	if err := l.Add(Entry{URL: "https://b.example/3.jar", Path: "/tmp/3.jar"}); err != nil {
		t.Fatal(err)
	}
	if l.Count() != 3 {
		t.Errorf("Count() = %d, want 3", l.Count())
	}
	if len(l.origins) != 2 {
		t.Errorf("expected 2 distinct origins, got %d", len(l.origins))
	}
}

func TestListAddRejectsUnsupportedScheme(t *testing.T) {
	l := NewList()
	if err := l.Add(Entry{URL: "ftp://a.example/1.jar"}); err == nil {
		t.Error("expected error for ftp scheme")
	}
}

func TestEngineRunDownloadsAndVerifies(t *testing.T) {
	payload := []byte("hello version jar")
	sum := sha1.Sum(payload)
	sha1hex := hex.EncodeToString(sum[:])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.jar")

	l := NewList()
	if err := l.Add(Entry{URL: srv.URL + "/out.jar", Path: dest, ExpectedSize: int64(len(payload)), ExpectedSHA1: sha1hex, DisplayName: "out.jar"}); err != nil {
		t.Fatal(err)
	}

	var ranCallback bool
	l.AddCallback(func() error {
		ranCallback = true
		return nil
	})

	eng := NewEngine()
	if err := eng.Run(context.Background(), l, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("downloaded content = %q, want %q", got, payload)
	}
	if !ranCallback {
		t.Error("expected post-batch callback to run on success")
	}
	if l.Count() != 0 {
		t.Error("expected list to be reset after a successful run")
	}
}

func TestEngineRunReportsSha1Mismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("unexpected content"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.jar")

	l := NewList()
	if err := l.Add(Entry{URL: srv.URL + "/out.jar", Path: dest, ExpectedSHA1: "0000000000000000000000000000000000000000"}); err != nil {
		t.Fatal(err)
	}

	eng := NewEngine()
	err := eng.Run(context.Background(), l, nil)
	if err == nil {
		t.Fatal("expected a download error")
	}
	dlErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if dlErr.Fails[srv.URL+"/out.jar"] != InvalidSha1 {
		t.Errorf("fail kind = %v, want InvalidSha1", dlErr.Fails[srv.URL+"/out.jar"])
	}
}

func TestEngineRunReportsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	l := NewList()
	url := srv.URL + "/missing.jar"
	if err := l.Add(Entry{URL: url, Path: filepath.Join(dir, "missing.jar")}); err != nil {
		t.Fatal(err)
	}

	eng := NewEngine()
	err := eng.Run(context.Background(), l, nil)
	if err == nil {
		t.Fatal("expected a download error")
	}
	dlErr := err.(*Error)
	if dlErr.Fails[url] != NotFound {
		t.Errorf("fail kind = %v, want NotFound", dlErr.Fails[url])
	}
}
