package install

import (
	"path/filepath"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/metadata"
)

// LoggerResult carries the fields prepare_logger contributes to the
// eventual LaunchPlan, both empty when the version has no logging block.
type LoggerResult struct {
	FilePath string
	Argument string
}

// PrepareLogger enqueues the logging config file named by logging.client,
// if any, and records the verbatim argument template that references it.
func PrepareLogger(c *config.Context, vm *metadata.VersionMetadata, list *download.List) (*LoggerResult, error) {
	if vm.Logging == nil || vm.Logging.Client == nil {
		return &LoggerResult{}, nil
	}

	ref := vm.Logging.Client.File
	path := filepath.Join(c.AssetsDir(), "log_configs", ref.ID)

	if needsDownload(path, ref.Size) {
		if err := list.Add(download.Entry{
			URL:          ref.URL,
			Path:         path,
			ExpectedSize: ref.Size,
			ExpectedSHA1: ref.SHA1,
			DisplayName:  ref.ID,
		}); err != nil {
			return nil, err
		}
	}

	return &LoggerResult{FilePath: path, Argument: vm.Logging.Client.Argument}, nil
}
