// Package metadata holds the version-metadata document types consumed by
// the installer, and the generic merge used to resolve inheritsFrom chains.
package metadata

import (
	"time"

	"github.com/quasar/launchpi/internal/rules"
)

// VersionType mirrors Mojang's "type" field on a version.
type VersionType string

const (
	TypeRelease  VersionType = "release"
	TypeSnapshot VersionType = "snapshot"
	TypeOldBeta  VersionType = "old_beta"
	TypeOldAlpha VersionType = "old_alpha"
)

// ManifestEntry is one element of the top-level version manifest's
// "versions" array.
type ManifestEntry struct {
	ID          string      `json:"id"`
	Type        VersionType `json:"type"`
	URL         string      `json:"url"`
	ReleaseTime time.Time   `json:"releaseTime"`
	SHA1        string      `json:"sha1"`
}

// Manifest is the root of Mojang's version manifest.
type Manifest struct {
	Latest   LatestVersions  `json:"latest"`
	Versions []ManifestEntry `json:"versions"`
}

// LatestVersions names the manifest's release/snapshot aliases.
type LatestVersions struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

// VersionMetadata is the fully-resolved (post-inheritsFrom-merge) per-version
// document.
type VersionMetadata struct {
	ID                 string            `json:"id"`
	InheritsFrom       string            `json:"inheritsFrom,omitempty"`
	Type               VersionType       `json:"type"`
	MainClass          string            `json:"mainClass"`
	MinecraftArguments string            `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments        `json:"arguments,omitempty"`
	Libraries          []Library         `json:"libraries"`
	AssetIndex         *AssetIndexRef    `json:"assetIndex,omitempty"`
	Assets             string            `json:"assets,omitempty"`
	Downloads          Downloads         `json:"downloads"`
	Logging            *Logging          `json:"logging,omitempty"`
	JavaVersion        JavaVersionReq    `json:"javaVersion"`
	ReleaseTime        time.Time         `json:"releaseTime"`
	Time               time.Time         `json:"time"`
}

// Arguments holds the modern per-element rule-gated argument templates.
type Arguments struct {
	Game []rules.Arg `json:"game"`
	JVM  []rules.Arg `json:"jvm"`
}

// Library is a single dependency entry.
type Library struct {
	Name      string            `json:"name"`
	URL       string            `json:"url,omitempty"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	Rules     []rules.Rule      `json:"rules,omitempty"`
	Natives   map[string]string `json:"natives,omitempty"`
}

// LibraryDownloads lists the known-good artifact descriptors for a library.
type LibraryDownloads struct {
	Artifact    *Artifact            `json:"artifact,omitempty"`
	Classifiers map[string]*Artifact `json:"classifiers,omitempty"`
}

// Artifact is a single downloadable file descriptor.
type Artifact struct {
	Path string `json:"path,omitempty"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url"`
}

// AssetIndexRef references the assets index for this version.
type AssetIndexRef struct {
	ID        string `json:"id"`
	SHA1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize,omitempty"`
	URL       string `json:"url"`
}

// Downloads holds the client/server jar descriptors.
type Downloads struct {
	Client         *Artifact `json:"client,omitempty"`
	ClientMappings *Artifact `json:"client_mappings,omitempty"`
	Server         *Artifact `json:"server,omitempty"`
	ServerMappings *Artifact `json:"server_mappings,omitempty"`
}

// Logging holds the logging-config descriptor.
type Logging struct {
	Client *LoggingClient `json:"client,omitempty"`
}

// LoggingClient is the logging.client sub-object.
type LoggingClient struct {
	Argument string         `json:"argument"`
	File     LoggingFileRef `json:"file"`
	Type     string         `json:"type,omitempty"`
}

// LoggingFileRef is the logging config file descriptor: an Artifact plus
// the id used as its on-disk filename.
type LoggingFileRef struct {
	ID   string `json:"id"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// JavaVersionReq names the JVM component required to run this version.
type JavaVersionReq struct {
	Component    string `json:"component,omitempty"`
	MajorVersion int    `json:"majorVersion,omitempty"`
}

// DefaultJavaComponent is used when javaVersion.component is absent.
const DefaultJavaComponent = "jre-legacy"

// Component returns javaVersion.component, defaulting per spec.
func (v *VersionMetadata) Component() string {
	if v.JavaVersion.Component != "" {
		return v.JavaVersion.Component
	}
	return DefaultJavaComponent
}

// AssetIndexVersion returns the index version to use: the "assets" override
// if present, else assetIndex.id.
func (v *VersionMetadata) AssetIndexVersion() string {
	if v.Assets != "" {
		return v.Assets
	}
	if v.AssetIndex != nil {
		return v.AssetIndex.ID
	}
	return ""
}

// AssetsIndex is the decoded contents of an assets/indexes/<id>.json file.
type AssetsIndex struct {
	Objects        map[string]AssetObject `json:"objects"`
	Virtual        bool                   `json:"virtual,omitempty"`
	MapToResources bool                   `json:"map_to_resources,omitempty"`
}

// AssetObject is one entry of an assets index.
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}
