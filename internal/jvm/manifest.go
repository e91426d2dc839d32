// Package jvm provisions a Mojang-distributed Java runtime: resolving the
// pinned aggregate JVM manifest for the host's platform, fetching the
// per-component file manifest, and materializing it on disk. It supersedes
// the teacher's Adoptium-API downloader and system-Java detector, since the
// spec calls for Mojang's own runtime distribution exclusively.
package jvm

import (
	"context"
	"fmt"

	"github.com/quasar/launchpi/internal/manifest"
	"github.com/quasar/launchpi/internal/platform"
)

const allManifestURL = "https://launchermeta.mojang.com/v1/products/java-runtime/2ec0cc96c44e5a76b9c8b7c39df7210883d12871/all.json"

// componentEntry mirrors one element of all.json's per-os/per-component
// availability list.
type componentEntry struct {
	Availability struct {
		Group    int `json:"group"`
		Progress int `json:"progress"`
	} `json:"availability"`
	Manifest struct {
		SHA1 string `json:"sha1"`
		Size int64  `json:"size"`
		URL  string `json:"url"`
	} `json:"manifest"`
	Version struct {
		Name     string `json:"name"`
		Released string `json:"released"`
	} `json:"version"`
}

// allManifest is the top-level all.json document, keyed by jvm-os-id then
// by component name.
type allManifest map[string]map[string][]componentEntry

// FileDownload is one download variant (raw or lzma-compressed) of a file
// manifest entry.
type FileDownload struct {
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// FileEntry describes one path in a component's file manifest.
type FileEntry struct {
	Type       string `json:"type"`
	Executable bool   `json:"executable"`
	Target     string `json:"target"`
	Downloads  struct {
		Raw  *FileDownload `json:"raw"`
		LZMA *FileDownload `json:"lzma"`
	} `json:"downloads"`
}

// FileManifest is the component manifest referenced by componentEntry.Manifest.URL.
type FileManifest struct {
	Files map[string]FileEntry `json:"files"`
}

// resolveComponent fetches all.json and returns the first available entry
// for the host platform and the requested component (e.g. "jre-legacy",
// "java-runtime-gamma").
func resolveComponent(ctx context.Context, component string) (componentEntry, error) {
	var all allManifest
	if _, err := manifest.JSONGet(ctx, allManifestURL, &all); err != nil {
		return componentEntry{}, fmt.Errorf("fetching jvm manifest: %w", err)
	}

	osID := platform.JVMOSID()
	byComponent, ok := all[osID]
	if !ok {
		return componentEntry{}, &UnsupportedArchError{OSID: osID}
	}

	entries, ok := byComponent[component]
	if !ok || len(entries) == 0 {
		return componentEntry{}, &UnsupportedVersionError{OSID: osID, Component: component}
	}

	return entries[0], nil
}

func fetchFileManifest(ctx context.Context, url string) (*FileManifest, error) {
	var fm FileManifest
	if _, err := manifest.JSONGet(ctx, url, &fm); err != nil {
		return nil, fmt.Errorf("fetching component file manifest: %w", err)
	}
	return &fm, nil
}

// UnsupportedArchError is returned when the host platform has no entry in
// Mojang's JVM manifest at all.
type UnsupportedArchError struct {
	OSID string
}

func (e *UnsupportedArchError) Error() string {
	return fmt.Sprintf("unsupported_arch: no jvm distribution for platform %q", e.OSID)
}

func (e *UnsupportedArchError) Code() string { return "unsupported_arch" }

// UnsupportedVersionError is returned when the host platform is known but
// the requested component has no available build.
type UnsupportedVersionError struct {
	OSID      string
	Component string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported_version: no %q jvm build for platform %q", e.Component, e.OSID)
}

func (e *UnsupportedVersionError) Code() string { return "unsupported_version" }
