package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContextDerivedPaths(t *testing.T) {
	c := NewContext("/root/.launchpi", "/home/user/.minecraft")

	if got, want := c.VersionsDir(), filepath.Join("/root/.launchpi", "versions"); got != want {
		t.Errorf("VersionsDir() = %q, want %q", got, want)
	}
	if got, want := c.VersionJSONPath("1.20.1"), filepath.Join("/root/.launchpi", "versions", "1.20.1", "1.20.1.json"); got != want {
		t.Errorf("VersionJSONPath() = %q, want %q", got, want)
	}
	if got, want := c.BinDir(), filepath.Join("/home/user/.minecraft", "bin"); got != want {
		t.Errorf("BinDir() = %q, want %q", got, want)
	}
}

func TestNewContextDefaultsWorkDirToMainDir(t *testing.T) {
	c := NewContext("/root/.launchpi", "")
	if c.WorkDir != c.MainDir {
		t.Errorf("WorkDir = %q, want it to default to MainDir %q", c.WorkDir, c.MainDir)
	}
}

func TestListVersionsEmptyWhenMissing(t *testing.T) {
	c := NewContext(t.TempDir(), "")
	got, err := c.ListVersions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no versions, got %v", got)
	}
}

func TestEnsureDirsAndListVersions(t *testing.T) {
	dir := t.TempDir()
	c := NewContext(dir, "")
	if err := c.EnsureDirs(); err != nil {
		t.Fatal(err)
	}

	for _, d := range []string{c.MainDir, c.AssetsDir(), c.LibrariesDir(), c.JVMDir()} {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("expected %s to exist: %v", d, err)
		}
	}

	if err := os.MkdirAll(c.VersionDir("1.20"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.VersionJSONPath("1.20"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := c.ListVersions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "1.20" {
		t.Errorf("ListVersions() = %+v, want one entry with ID 1.20", got)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	c := NewContext(t.TempDir(), "")
	if err := c.EnsureDirs(); err != nil {
		t.Fatal(err)
	}

	p := DefaultPreferences()
	p.JVMArgs = []string{"-Xmx4G"}
	if err := p.Save(c); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadPreferences(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.JVMArgs) != 1 || loaded.JVMArgs[0] != "-Xmx4G" {
		t.Errorf("JVMArgs = %v, want [-Xmx4G]", loaded.JVMArgs)
	}
	if loaded.MSAClientID != DefaultMSAClientID {
		t.Errorf("MSAClientID = %q, want default", loaded.MSAClientID)
	}
}
