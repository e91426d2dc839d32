// Package install implements the Version Installer: resolving inherited
// version metadata, and preparing the jar, assets, logging config,
// libraries, and JVM a launch needs, queuing everything through the
// Download Engine. Grounded in original_source/portablemc.py's Version
// class (prepare_meta/prepare_jar/prepare_assets/prepare_logger/
// prepare_libraries/prepare_jvm), which the teacher has no equivalent of:
// the teacher's launch.Launcher inlines a much smaller subset of this
// directly into its Launch method.
package install

import "fmt"

// VersionErrorKind tags why version metadata resolution failed.
type VersionErrorKind string

const (
	VersionNotFound VersionErrorKind = "not_found"
	TooManyParents  VersionErrorKind = "too_many_parents"
	JarNotFound     VersionErrorKind = "jar_not_found"
)

// VersionError is raised by prepare_meta/prepare_jar.
type VersionError struct {
	Kind      VersionErrorKind
	VersionID string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("version %q: %s", e.VersionID, e.Kind)
}

func (e *VersionError) Code() string { return string(e.Kind) }
