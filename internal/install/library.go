package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/metadata"
	"github.com/quasar/launchpi/internal/platform"
	"github.com/quasar/launchpi/internal/rules"
)

// LibrariesResult carries the classpath and native jar paths prepare_libraries
// resolves, seeded with the client jar itself.
type LibrariesResult struct {
	Classpath []string
	Natives   []string
}

// PrepareLibraries walks the version's libraries, skipping entries whose
// rules don't apply to this platform, resolving each to a classpath entry
// or a native jar, and enqueueing any that are missing or size-mismatched.
func PrepareLibraries(c *config.Context, vm *metadata.VersionMetadata, clientJAR string, list *download.List) (*LibrariesResult, error) {
	result := &LibrariesResult{Classpath: []string{clientJAR}}
	features := map[string]bool{}

	for _, lib := range vm.Libraries {
		if !rules.Applies(lib.Rules, features) {
			continue
		}

		if classifier, ok := nativesClassifier(lib.Natives); ok {
			artifact := resolveArtifact(c, lib, classifier)
			if artifact == nil {
				continue
			}
			path := libraryPath(c, lib, artifact, classifier)
			if err := enqueueLibrary(list, artifact, path, lib.Name+":"+classifier); err != nil {
				return nil, err
			}
			result.Natives = append(result.Natives, path)
			continue
		}

		artifact := resolveArtifact(c, lib, "")
		if artifact == nil {
			continue
		}
		path := libraryPath(c, lib, artifact, "")
		if err := enqueueLibrary(list, artifact, path, lib.Name); err != nil {
			return nil, err
		}
		result.Classpath = append(result.Classpath, path)
	}

	return result, nil
}

// nativesClassifier reports the natives classifier for this platform, with
// ${arch} substituted per spec, if the library declares one.
func nativesClassifier(natives map[string]string) (string, bool) {
	if len(natives) == 0 {
		return "", false
	}
	tmpl, ok := natives[platform.OSID()]
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(tmpl, "${arch}", platform.Bits()), true
}

// resolveArtifact applies the two-tier lookup: an explicit
// downloads.{classifiers.<classifier>,artifact} descriptor first, else a
// synthetic artifact derived from the Maven coordinate in Name, rooted at
// the library's bare url, when the version metadata carries no download
// descriptor at all. If the file already sits on disk at the derived path,
// it's used as is with no url (no download needed). If it's absent and the
// library has no bare url to fetch it from, the entry is skipped entirely,
// matching the source's file-exists-else-skip behavior. A Name that is not
// exactly group:artifact:version is skipped as well when this fallback is
// needed.
func resolveArtifact(c *config.Context, lib metadata.Library, classifier string) *metadata.Artifact {
	if lib.Downloads != nil {
		if classifier != "" {
			if a, ok := lib.Downloads.Classifiers[classifier]; ok && a != nil {
				return a
			}
			return nil
		}
		if lib.Downloads.Artifact != nil {
			return lib.Downloads.Artifact
		}
	}

	if len(strings.Split(lib.Name, ":")) != 3 {
		return nil
	}
	relPath := mavenPath(lib.Name, classifier)
	path := filepath.Join(c.LibrariesDir(), filepath.FromSlash(relPath))
	if _, err := os.Stat(path); err == nil {
		return &metadata.Artifact{}
	}
	if lib.URL == "" {
		return nil
	}

	base := lib.URL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &metadata.Artifact{URL: base + relPath}
}

// libraryPath resolves the on-disk path for a library entry: the
// downloads.{artifact,classifiers} path when given, else a path derived
// from the library's Maven coordinate, with classifier appended.
func libraryPath(c *config.Context, lib metadata.Library, artifact *metadata.Artifact, classifier string) string {
	if artifact.Path != "" {
		return filepath.Join(c.LibrariesDir(), filepath.FromSlash(artifact.Path))
	}
	return filepath.Join(c.LibrariesDir(), filepath.FromSlash(mavenPath(lib.Name, classifier)))
}

// mavenPath derives the conventional repository-relative path from a
// group:artifact:version coordinate, appending classifier (when non-empty)
// to the file name. Coordinate fields after the version are ignored.
func mavenPath(coordinate, classifier string) string {
	parts := strings.Split(coordinate, ":")
	if len(parts) < 3 {
		return coordinate
	}
	group, artifact, version := parts[0], parts[1], parts[2]
	groupPath := strings.ReplaceAll(group, ".", "/")
	name := fmt.Sprintf("%s-%s", artifact, version)
	if classifier != "" {
		name += "-" + classifier
	}
	return fmt.Sprintf("%s/%s/%s/%s.jar", groupPath, artifact, version, name)
}

func enqueueLibrary(list *download.List, artifact *metadata.Artifact, path, displayName string) error {
	if !needsDownload(path, artifact.Size) {
		return nil
	}
	url := artifact.URL
	if url == "" {
		return nil
	}
	return list.Add(download.Entry{
		URL:          url,
		Path:         path,
		ExpectedSize: artifact.Size,
		ExpectedSHA1: artifact.SHA1,
		DisplayName:  displayName,
	})
}
