package install

import (
	"os"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/metadata"
)

// PrepareJar locates the client jar, enqueuing a download if it is absent
// or its size does not match, and fails JarNotFound if there is no
// download descriptor and no file already on disk.
func PrepareJar(c *config.Context, vm *metadata.VersionMetadata, list *download.List) (string, error) {
	path := c.VersionJARPath(vm.ID)

	if vm.Downloads.Client == nil {
		if !fileExists(path) {
			return "", &VersionError{Kind: JarNotFound, VersionID: vm.ID}
		}
		return path, nil
	}

	if needsDownload(path, vm.Downloads.Client.Size) {
		if err := list.Add(download.Entry{
			URL:          vm.Downloads.Client.URL,
			Path:         path,
			ExpectedSize: vm.Downloads.Client.Size,
			ExpectedSHA1: vm.Downloads.Client.SHA1,
			DisplayName:  vm.ID + ".jar",
		}); err != nil {
			return "", err
		}
	}

	return path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// needsDownload reports whether path is missing or its size does not
// match expectedSize. A zero expectedSize (unknown) only checks presence.
func needsDownload(path string, expectedSize int64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	if expectedSize > 0 && info.Size() != expectedSize {
		return true
	}
	return false
}
