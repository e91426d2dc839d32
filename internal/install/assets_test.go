package install

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/metadata"
)

func testContext(t *testing.T) *config.Context {
	t.Helper()
	dir := t.TempDir()
	return &config.Context{MainDir: dir, WorkDir: dir}
}

func writeAssetsIndex(t *testing.T, c *config.Context, version, body string) {
	t.Helper()
	path := filepath.Join(c.AssetsDir(), "indexes", version+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPrepareAssetsSkipsWhenNoIndex(t *testing.T) {
	c := testContext(t)
	vm := &metadata.VersionMetadata{ID: "1.20"}
	list := download.NewList()

	res, err := PrepareAssets(context.Background(), c, vm, list)
	if err != nil {
		t.Fatal(err)
	}
	if res.IndexVersion != "" || list.Count() != 0 {
		t.Errorf("expected no-op result, got %+v with %d queued", res, list.Count())
	}
}

func TestPrepareAssetsEnqueuesMissingObjects(t *testing.T) {
	c := testContext(t)
	writeAssetsIndex(t, c, "17", `{"objects":{"icons/icon.png":{"hash":"da39a3ee5e6b4b0d3255bfef95601890afd80709","size":0}}}`)
	vm := &metadata.VersionMetadata{ID: "1.20", Assets: "17"}
	list := download.NewList()

	res, err := PrepareAssets(context.Background(), c, vm, list)
	if err != nil {
		t.Fatal(err)
	}
	if res.IndexVersion != "17" || res.Count != 1 {
		t.Errorf("result = %+v, want IndexVersion 17, Count 1", res)
	}
	if list.Count() != 1 {
		t.Errorf("list.Count() = %d, want 1", list.Count())
	}
}

func TestPrepareAssetsSkipsExistingObjectsWithMatchingSize(t *testing.T) {
	c := testContext(t)
	hash := "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	writeAssetsIndex(t, c, "17", `{"objects":{"icons/icon.png":{"hash":"`+hash+`","size":4}}}`)
	objPath := assetObjectPath(c, hash)
	if err := os.MkdirAll(filepath.Dir(objPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(objPath, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	vm := &metadata.VersionMetadata{ID: "1.20", Assets: "17"}
	list := download.NewList()

	if _, err := PrepareAssets(context.Background(), c, vm, list); err != nil {
		t.Fatal(err)
	}
	if list.Count() != 0 {
		t.Errorf("list.Count() = %d, want 0 (object already present with matching size)", list.Count())
	}
}

func TestPrepareAssetsVirtualCallbackCopiesObjects(t *testing.T) {
	c := testContext(t)
	hash := "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	writeAssetsIndex(t, c, "legacy", `{"virtual":true,"objects":{"sound/click.ogg":{"hash":"`+hash+`","size":4}}}`)
	objPath := assetObjectPath(c, hash)
	if err := os.MkdirAll(filepath.Dir(objPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(objPath, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	vm := &metadata.VersionMetadata{ID: "1.6", Assets: "legacy"}
	list := download.NewList()

	res, err := PrepareAssets(context.Background(), c, vm, list)
	if err != nil {
		t.Fatal(err)
	}
	if res.VirtualDir == "" {
		t.Fatal("expected VirtualDir to be set for a virtual index")
	}

	engine := download.NewEngine()
	if err := engine.Run(context.Background(), list, nil); err != nil {
		t.Fatalf("engine.Run() with nothing queued and one callback failed: %v", err)
	}

	copied := filepath.Join(res.VirtualDir, "sound", "click.ogg")
	data, err := os.ReadFile(copied)
	if err != nil {
		t.Fatalf("expected virtual copy at %s: %v", copied, err)
	}
	if string(data) != "data" {
		t.Errorf("copied content = %q, want %q", data, "data")
	}
}
