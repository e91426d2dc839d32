package manifest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/quasar/launchpi/internal/metadata"
)

const sampleManifestJSON = `{
  "latest": {"release": "1.19.4", "snapshot": "23w13a"},
  "versions": [
    {"id": "1.19.4", "type": "release", "url": "https://example/1.19.4.json", "sha1": "abc"},
    {"id": "23w13a", "type": "snapshot", "url": "https://example/23w13a.json", "sha1": "def"}
  ]
}`

func newClientWithManifest(t *testing.T, raw string) *Client {
	t.Helper()
	c := New()
	var m metadata.Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	c.manifest = &m
	return c
}

func TestFilterLatestResolvesReleaseAlias(t *testing.T) {
	c := newClientWithManifest(t, sampleManifestJSON)

	id, isAlias, err := c.FilterLatest(context.Background(), "release")
	if err != nil {
		t.Fatal(err)
	}
	if id != "1.19.4" || !isAlias {
		t.Errorf("FilterLatest(release) = (%q, %v), want (1.19.4, true)", id, isAlias)
	}
}

func TestGetVersionReturnsResolvedEntry(t *testing.T) {
	c := newClientWithManifest(t, sampleManifestJSON)

	entry, found, err := c.GetVersion(context.Background(), "release")
	if err != nil {
		t.Fatal(err)
	}
	if !found || entry.ID != "1.19.4" {
		t.Errorf("GetVersion(release) = (%+v, %v), want id 1.19.4", entry, found)
	}
}

func TestFilterLatestPassesThroughNonAlias(t *testing.T) {
	c := newClientWithManifest(t, sampleManifestJSON)

	id, isAlias, err := c.FilterLatest(context.Background(), "1.19.4")
	if err != nil {
		t.Fatal(err)
	}
	if id != "1.19.4" || isAlias {
		t.Errorf("FilterLatest(1.19.4) = (%q, %v), want (1.19.4, false)", id, isAlias)
	}
}

func TestGetVersionNotFound(t *testing.T) {
	c := newClientWithManifest(t, sampleManifestJSON)

	_, found, err := c.GetVersion(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Errorf("expected not found")
	}
}
