package jvm

import (
	"path/filepath"
	"testing"
)

func TestWriteAndReadReleaseVersion(t *testing.T) {
	dir := t.TempDir()
	if err := writeReleaseFile(dir, "21.0.1"); err != nil {
		t.Fatal(err)
	}

	got, err := readReleaseVersion(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != "21.0.1" {
		t.Errorf("readReleaseVersion() = %q, want 21.0.1", got)
	}
}

func TestWriteReleaseFileDoesNotOverwriteExisting(t *testing.T) {
	dir := t.TempDir()
	if err := writeReleaseFile(dir, "17.0.2"); err != nil {
		t.Fatal(err)
	}
	if err := writeReleaseFile(dir, "21.0.1"); err != nil {
		t.Fatal(err)
	}

	got, err := readReleaseVersion(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != "17.0.2" {
		t.Errorf("readReleaseVersion() = %q, want the original 17.0.2 preserved", got)
	}
}

func TestReadReleaseVersionMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := readReleaseVersion(dir); err == nil {
		t.Error("expected error for missing release file")
	}
}

func TestFindJavaExecutableMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := findJavaExecutable(dir); err == nil {
		t.Error("expected error when no java binary is present")
	}
}

func TestFindJavaExecutableUnderBin(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "bin")
	if err := writeExecutableStub(binDir, javaBinaryName()); err != nil {
		t.Fatal(err)
	}

	got, err := findJavaExecutable(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(binDir, javaBinaryName())
	if got != want {
		t.Errorf("findJavaExecutable() = %q, want %q", got, want)
	}
}

func TestExistingFindsProvisionedRuntime(t *testing.T) {
	jvmDir := t.TempDir()
	root := filepath.Join(jvmDir, "jre-legacy")
	if err := writeExecutableStub(filepath.Join(root, "bin"), javaBinaryName()); err != nil {
		t.Fatal(err)
	}
	if err := writeReleaseFile(root, "8.0.392"); err != nil {
		t.Fatal(err)
	}

	rt, ok := Existing(jvmDir, "jre-legacy")
	if !ok {
		t.Fatal("expected Existing to find the provisioned runtime")
	}
	if rt.Version != "8.0.392" {
		t.Errorf("Version = %q, want 8.0.392", rt.Version)
	}
}

func TestExistingAbsentComponent(t *testing.T) {
	jvmDir := t.TempDir()
	if _, ok := Existing(jvmDir, "jre-legacy"); ok {
		t.Error("expected Existing to report false for an unprovisioned component")
	}
}
