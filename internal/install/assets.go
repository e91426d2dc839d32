package install

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/manifest"
	"github.com/quasar/launchpi/internal/metadata"
)

const resourcesBaseURL = "https://resources.download.minecraft.net"

// AssetsResult carries the fields prepare_assets contributes to the
// eventual LaunchPlan.
type AssetsResult struct {
	IndexVersion string
	VirtualDir   string
	Count        int
}

// PrepareAssets resolves and enqueues every asset object named by the
// version's asset index, registering legacy virtual/map_to_resources
// copy callbacks when the index calls for them.
func PrepareAssets(ctx context.Context, c *config.Context, vm *metadata.VersionMetadata, list *download.List) (*AssetsResult, error) {
	indexVersion := vm.AssetIndexVersion()
	if indexVersion == "" {
		return &AssetsResult{}, nil
	}

	index, err := loadOrFetchAssetsIndex(ctx, c, vm, indexVersion)
	if err != nil {
		return nil, err
	}

	for name, obj := range index.Objects {
		target := assetObjectPath(c, obj.Hash)
		if needsDownload(target, obj.Size) {
			url := fmt.Sprintf("%s/%s/%s", resourcesBaseURL, obj.Hash[:2], obj.Hash)
			if err := list.Add(download.Entry{
				URL:          url,
				Path:         target,
				ExpectedSize: obj.Size,
				ExpectedSHA1: obj.Hash,
				DisplayName:  name,
			}); err != nil {
				return nil, err
			}
		}
	}

	result := &AssetsResult{IndexVersion: indexVersion, Count: len(index.Objects)}

	if index.MapToResources || index.Virtual {
		if index.Virtual {
			result.VirtualDir = filepath.Join(c.AssetsDir(), "virtual", indexVersion)
		}
		objects := index.Objects
		list.AddCallback(func() error {
			for name, obj := range objects {
				src := assetObjectPath(c, obj.Hash)
				if index.MapToResources {
					if err := copyFile(src, filepath.Join(c.WorkDir, "resources", filepath.FromSlash(name))); err != nil {
						return fmt.Errorf("mapping %s to resources: %w", name, err)
					}
				}
				if index.Virtual {
					if err := copyFile(src, filepath.Join(result.VirtualDir, filepath.FromSlash(name))); err != nil {
						return fmt.Errorf("mapping %s to virtual assets: %w", name, err)
					}
				}
			}
			return nil
		})
	}

	return result, nil
}

func assetObjectPath(c *config.Context, hash string) string {
	return filepath.Join(c.AssetsDir(), "objects", hash[:2], hash)
}

func loadOrFetchAssetsIndex(ctx context.Context, c *config.Context, vm *metadata.VersionMetadata, indexVersion string) (*metadata.AssetsIndex, error) {
	path := filepath.Join(c.AssetsDir(), "indexes", indexVersion+".json")

	if data, err := os.ReadFile(path); err == nil {
		var idx metadata.AssetsIndex
		if json.Unmarshal(data, &idx) == nil {
			return &idx, nil
		}
	}

	if vm.AssetIndex == nil {
		return nil, fmt.Errorf("no assetIndex descriptor available to fetch index %s", indexVersion)
	}

	var idx metadata.AssetsIndex
	if _, err := manifest.JSONGet(ctx, vm.AssetIndex.URL, &idx); err != nil {
		return nil, fmt.Errorf("fetching assets index %s: %w", indexVersion, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if data, err := json.Marshal(idx); err == nil {
			_ = os.WriteFile(path, data, 0o644)
		}
	}

	return &idx, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
