package install

import (
	"context"
	"fmt"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/jvm"
	"github.com/quasar/launchpi/internal/manifest"
	"github.com/quasar/launchpi/internal/metadata"
)

// LaunchPlan is everything the Launcher needs to build a Minecraft
// process: resolved paths and metadata handed off by the installer, per
// spec ยง3. Meta is carried alongside as a practical extension so the
// Launcher can read arguments/rules without re-resolving the version.
type LaunchPlan struct {
	Meta *metadata.VersionMetadata

	VersionJAR    string
	ClasspathLibs []string
	NativeLibs    []string

	AssetsIndexVersion string
	AssetsVirtualDir   string

	LoggingFile     string
	LoggingArgument string

	JVMExec    string
	JVMVersion string
}

// Installer runs the prepare_meta -> prepare_jar -> prepare_assets ->
// prepare_logger -> prepare_libraries -> prepare_jvm -> download pipeline
// for a single version id.
type Installer struct {
	Context  *config.Context
	Manifest *manifest.Client
}

// New creates an Installer bound to a launcher context and manifest client.
func New(c *config.Context, mc *manifest.Client) *Installer {
	return &Installer{Context: c, Manifest: mc}
}

// Install runs the whole pipeline for id and returns the resulting plan.
// progress, if non-nil, receives download progress; Install does not close
// it, so the caller closes it once Install returns.
func (i *Installer) Install(ctx context.Context, id string, progress chan<- download.Progress) (*LaunchPlan, error) {
	vm, err := PrepareMeta(ctx, i.Context, i.Manifest, id)
	if err != nil {
		return nil, fmt.Errorf("preparing metadata: %w", err)
	}

	list := download.NewList()

	jarPath, err := PrepareJar(i.Context, vm, list)
	if err != nil {
		return nil, fmt.Errorf("preparing jar: %w", err)
	}

	assets, err := PrepareAssets(ctx, i.Context, vm, list)
	if err != nil {
		return nil, fmt.Errorf("preparing assets: %w", err)
	}

	logger, err := PrepareLogger(i.Context, vm, list)
	if err != nil {
		return nil, fmt.Errorf("preparing logging config: %w", err)
	}

	libs, err := PrepareLibraries(i.Context, vm, jarPath, list)
	if err != nil {
		return nil, fmt.Errorf("preparing libraries: %w", err)
	}

	rt, err := PrepareJVM(ctx, i.Context, vm)
	if err != nil {
		return nil, fmt.Errorf("preparing jvm: %w", err)
	}

	engine := download.NewEngine()
	if err := engine.Run(ctx, list, progress); err != nil {
		return nil, fmt.Errorf("downloading version files: %w", err)
	}

	return &LaunchPlan{
		Meta:               vm,
		VersionJAR:         jarPath,
		ClasspathLibs:      libs.Classpath,
		NativeLibs:         libs.Natives,
		AssetsIndexVersion: assets.IndexVersion,
		AssetsVirtualDir:   assets.VirtualDir,
		LoggingFile:        logger.FilePath,
		LoggingArgument:    logger.Argument,
		JVMExec:            rt.JavaExecutable,
		JVMVersion:         rt.Version,
	}, nil
}
