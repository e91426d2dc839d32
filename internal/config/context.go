// Package config resolves the installation root (main_dir/work_dir) and its
// derived subdirectories, the way the teacher's config package resolved a
// single DataDir.
package config

import (
	"os"
	"path/filepath"
)

// Context is an installation root: MainDir holds versions/assets/libraries/jvm,
// WorkDir is the game's working directory (bin/ scratch dirs and the
// persisted auth database live under it). Immutable after construction.
type Context struct {
	MainDir string
	WorkDir string
}

// NewContext builds a Context from explicit roots. If workDir is empty it
// defaults to mainDir (the common single-directory layout).
func NewContext(mainDir, workDir string) *Context {
	if workDir == "" {
		workDir = mainDir
	}
	return &Context{MainDir: mainDir, WorkDir: workDir}
}

// DefaultContext resolves the installation root the same way the teacher's
// getDefaultDataDir did: portable mode (an adjacent "data" directory next to
// the executable) takes priority, then XDG_DATA_HOME, then the platform's
// conventional per-user data directory.
func DefaultContext() *Context {
	dir := defaultMainDir()
	return NewContext(dir, dir)
}

func defaultMainDir() string {
	if exe, err := os.Executable(); err == nil {
		portable := filepath.Join(filepath.Dir(exe), "data")
		if _, err := os.Stat(portable); err == nil {
			return portable
		}
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "launchpi")
	}

	home, _ := os.UserHomeDir()
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "launchpi")
	}
	return filepath.Join(home, ".local", "share", "launchpi")
}

func (c *Context) VersionsDir() string   { return filepath.Join(c.MainDir, "versions") }
func (c *Context) AssetsDir() string     { return filepath.Join(c.MainDir, "assets") }
func (c *Context) LibrariesDir() string  { return filepath.Join(c.MainDir, "libraries") }
func (c *Context) JVMDir() string        { return filepath.Join(c.MainDir, "jvm") }
func (c *Context) BinDir() string        { return filepath.Join(c.WorkDir, "bin") }
func (c *Context) AuthDatabasePath() string {
	return filepath.Join(c.WorkDir, "portablemc_auth.json")
}
func (c *Context) LegacyAuthFilePath() string {
	return filepath.Join(c.WorkDir, "portablemc_tokens")
}

// VersionDir returns main_dir/versions/<id>.
func (c *Context) VersionDir(id string) string {
	return filepath.Join(c.VersionsDir(), id)
}

// VersionJSONPath returns main_dir/versions/<id>/<id>.json.
func (c *Context) VersionJSONPath(id string) string {
	return filepath.Join(c.VersionDir(id), id+".json")
}

// VersionJARPath returns main_dir/versions/<id>/<id>.jar.
func (c *Context) VersionJARPath(id string) string {
	return filepath.Join(c.VersionDir(id), id+".jar")
}

// EnsureDirs creates every directory this Context is responsible for.
func (c *Context) EnsureDirs() error {
	dirs := []string{c.MainDir, c.WorkDir, c.VersionsDir(), c.AssetsDir(), c.LibrariesDir(), c.JVMDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// ListVersions scans <main_dir>/versions/*/*.json and returns the ids found
// along with each file's modification time. It is the Go rendering of the
// source's generator-style list_versions: a lazily-computed, finite slice
// rather than a cached field, so repeated calls reflect the current
// filesystem state.
type VersionListing struct {
	ID      string
	ModTime int64 // unix seconds
}

func (c *Context) ListVersions() ([]VersionListing, error) {
	entries, err := os.ReadDir(c.VersionsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []VersionListing
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		info, err := os.Stat(c.VersionJSONPath(id))
		if err != nil {
			continue
		}
		out = append(out, VersionListing{ID: id, ModTime: info.ModTime().Unix()})
	}
	return out, nil
}
