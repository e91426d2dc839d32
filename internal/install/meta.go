package install

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/manifest"
	"github.com/quasar/launchpi/internal/metadata"
)

// maxParents is the default inheritsFrom recursion cap (spec ยง4.4).
const maxParents = 50

// PrepareMeta resolves id's version metadata, following inheritsFrom
// chains and merging parent under child, and returns the fully projected
// typed view.
func PrepareMeta(ctx context.Context, c *config.Context, mc *manifest.Client, id string) (*metadata.VersionMetadata, error) {
	merged, err := loadAndMergeChain(ctx, c, mc, id, 0)
	if err != nil {
		return nil, err
	}
	delete(merged, "inheritsFrom")

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("re-encoding merged metadata for %s: %w", id, err)
	}

	var vm metadata.VersionMetadata
	if err := json.Unmarshal(data, &vm); err != nil {
		return nil, fmt.Errorf("decoding merged metadata for %s: %w", id, err)
	}
	if vm.ID == "" {
		vm.ID = id
	}
	return &vm, nil
}

func loadAndMergeChain(ctx context.Context, c *config.Context, mc *manifest.Client, id string, depth int) (map[string]any, error) {
	if depth > maxParents {
		return nil, &VersionError{Kind: TooManyParents, VersionID: id}
	}

	raw, err := loadOrFetchVersionJSON(ctx, c, mc, id)
	if err != nil {
		return nil, err
	}

	parentID, hasParent := raw["inheritsFrom"].(string)
	if hasParent && parentID != "" {
		parent, err := loadAndMergeChain(ctx, c, mc, parentID, depth+1)
		if err != nil {
			return nil, err
		}
		metadata.Merge(raw, parent)
	}
	return raw, nil
}

// loadOrFetchVersionJSON reads the version's on-disk metadata, treating a
// missing or malformed file as absent and falling back to the Manifest
// Client to locate and persist it.
func loadOrFetchVersionJSON(ctx context.Context, c *config.Context, mc *manifest.Client, id string) (map[string]any, error) {
	path := c.VersionJSONPath(id)

	if data, err := os.ReadFile(path); err == nil {
		var m map[string]any
		if json.Unmarshal(data, &m) == nil {
			return m, nil
		}
	}

	entry, found, err := mc.GetVersion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolving version %s via manifest: %w", id, err)
	}
	if !found {
		return nil, &VersionError{Kind: VersionNotFound, VersionID: id}
	}

	var m map[string]any
	if _, err := manifest.JSONGet(ctx, entry.URL, &m); err != nil {
		return nil, fmt.Errorf("fetching metadata for %s: %w", id, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if data, err := json.MarshalIndent(m, "", "  "); err == nil {
			_ = os.WriteFile(path, data, 0o644)
		}
	}

	return m, nil
}
