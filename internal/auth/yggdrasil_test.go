package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthenticateYggdrasil(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "access-123",
			"clientToken": "client-123",
			"selectedProfile": map[string]string{
				"id":   "abc123",
				"name": "Steve",
			},
		})
	}))
	defer ts.Close()

	oldURL := yggAuthenticateURL
	yggAuthenticateURL = ts.URL
	defer func() { yggAuthenticateURL = oldURL }()

	s, err := AuthenticateYggdrasil(context.Background(), "client-123", "steve@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if s.AccessToken() != "access-123" || s.Username() != "Steve" || s.UUIDHex() != "abc123" {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestYggdrasilValidateSucceedsOn204(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	oldURL := yggValidateURL
	yggValidateURL = ts.URL
	defer func() { yggValidateURL = oldURL }()

	s := &YggdrasilSession{AccessTokenVal: "a", ClientIDVal: "c"}
	ok, err := s.Validate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected validate to succeed on 204")
	}
}

func TestYggdrasilValidateFailsOnNon204(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	oldURL := yggValidateURL
	yggValidateURL = ts.URL
	defer func() { yggValidateURL = oldURL }()

	s := &YggdrasilSession{AccessTokenVal: "a", ClientIDVal: "c"}
	ok, err := s.Validate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected validate to fail on non-204")
	}
}

func TestYggdrasilRefreshUpdatesToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "access-456",
			"selectedProfile": map[string]string{
				"id":   "abc123",
				"name": "SteveRenamed",
			},
		})
	}))
	defer ts.Close()

	oldURL := yggRefreshURL
	yggRefreshURL = ts.URL
	defer func() { yggRefreshURL = oldURL }()

	s := &YggdrasilSession{AccessTokenVal: "old", ClientIDVal: "c", UsernameVal: "Steve"}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.AccessTokenVal != "access-456" || s.UsernameVal != "SteveRenamed" {
		t.Errorf("unexpected post-refresh state: %+v", s)
	}
}

func TestFormatTokenArgument(t *testing.T) {
	s := &YggdrasilSession{AccessTokenVal: "tok", UUIDVal: "uuid1234"}
	if got, want := s.FormatTokenArgument(false), "tok"; got != want {
		t.Errorf("modern form = %q, want %q", got, want)
	}
	if got, want := s.FormatTokenArgument(true), "token:tok:uuid1234"; got != want {
		t.Errorf("legacy form = %q, want %q", got, want)
	}
}
