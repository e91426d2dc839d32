package manifest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/quasar/launchpi/internal/metadata"
)

const versionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"

// Client is a lazy, memory-cached reader of Mojang's top-level version
// manifest, grounded in the teacher's api.MojangClient but trimmed to the
// spec's exact caching contract: fetched once, cached for the Client's
// lifetime (the spec does not describe a TTL or re-fetch policy).
type Client struct {
	mu       sync.Mutex
	manifest *metadata.Manifest
}

// New creates a Manifest Client.
func New() *Client {
	return &Client{}
}

func (c *Client) load(ctx context.Context) (*metadata.Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manifest != nil {
		return c.manifest, nil
	}

	var m metadata.Manifest
	if _, err := JSONGet(ctx, versionManifestURL, &m); err != nil {
		return nil, fmt.Errorf("fetching version manifest: %w", err)
	}
	c.manifest = &m
	return c.manifest, nil
}

// AllVersions returns the manifest's versions list unchanged.
func (c *Client) AllVersions(ctx context.Context) ([]metadata.ManifestEntry, error) {
	m, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Versions, nil
}

// FilterLatest expands "release"/"snapshot" aliases via the manifest's
// latest block; any other id passes through unchanged. The returned bool
// marks whether an alias was expanded.
func (c *Client) FilterLatest(ctx context.Context, id string) (string, bool, error) {
	if id != "release" && id != "snapshot" {
		return id, false, nil
	}
	m, err := c.load(ctx)
	if err != nil {
		return "", false, err
	}
	if id == "release" {
		return m.Latest.Release, true, nil
	}
	return m.Latest.Snapshot, true, nil
}

// GetVersion resolves aliases then linearly scans the manifest for a
// matching id, returning (entry, true) or (zero, false) if absent.
func (c *Client) GetVersion(ctx context.Context, id string) (metadata.ManifestEntry, bool, error) {
	resolved, _, err := c.FilterLatest(ctx, id)
	if err != nil {
		return metadata.ManifestEntry{}, false, err
	}

	m, err := c.load(ctx)
	if err != nil {
		return metadata.ManifestEntry{}, false, err
	}
	for _, v := range m.Versions {
		if v.ID == resolved {
			return v, true, nil
		}
	}
	return metadata.ManifestEntry{}, false, nil
}

// Recent orders AllVersions by release time descending, using semver
// precedence to break ties between entries sharing a release time when
// their ids parse as valid semantic versions. releasesOnly restricts the
// result to TypeRelease entries. This is a supplemental helper; GetVersion
// and FilterLatest do not use it.
func (c *Client) Recent(ctx context.Context, n int, releasesOnly bool) ([]metadata.ManifestEntry, error) {
	all, err := c.AllVersions(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []metadata.ManifestEntry
	for _, v := range all {
		if releasesOnly && v.Type != metadata.TypeRelease {
			continue
		}
		filtered = append(filtered, v)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		ti, tj := filtered[i].ReleaseTime, filtered[j].ReleaseTime
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		vi, erri := semver.NewVersion(filtered[i].ID)
		vj, errj := semver.NewVersion(filtered[j].ID)
		if erri == nil && errj == nil {
			return vi.GreaterThan(vj)
		}
		return false
	})

	if n > 0 && n < len(filtered) {
		filtered = filtered[:n]
	}
	return filtered, nil
}
