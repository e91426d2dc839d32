package jvm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/quasar/launchpi/internal/download"
)

// Runtime describes a provisioned JVM ready to be launched.
type Runtime struct {
	Dir            string
	JavaExecutable string
	Version        string
}

// Provision materializes the named component under jvmDir/<component>,
// downloading every file its manifest lists through the download engine
// (with size and SHA-1 verification, whether or not the file is already on
// disk), then returns the path to its java executable. Unlike
// the teacher's archive-based downloader, Mojang's manifest already
// describes an explicit tree of per-file relative paths, so no top-level
// directory needs to be stripped from an archive.
func Provision(ctx context.Context, jvmDir, component string) (*Runtime, error) {
	entry, err := resolveComponent(ctx, component)
	if err != nil {
		return nil, err
	}

	fm, err := fetchFileManifest(ctx, entry.Manifest.URL)
	if err != nil {
		return nil, err
	}

	root := filepath.Join(jvmDir, component)

	var links []struct{ path, target string }
	var executables []string

	list := download.NewList()
	for relPath, file := range fm.Files {
		target := filepath.Join(root, filepath.FromSlash(relPath))
		switch file.Type {
		case "directory":
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", target, err)
			}
		case "link":
			links = append(links, struct{ path, target string }{target, file.Target})
		case "file":
			if file.Downloads.Raw == nil {
				continue
			}
			if err := list.Add(download.Entry{
				URL:          file.Downloads.Raw.URL,
				Path:         target,
				ExpectedSize: file.Downloads.Raw.Size,
				ExpectedSHA1: file.Downloads.Raw.SHA1,
				DisplayName:  relPath,
			}); err != nil {
				return nil, fmt.Errorf("queueing %s: %w", relPath, err)
			}
			if file.Executable {
				executables = append(executables, target)
			}
		}
	}

	list.AddCallback(func() error {
		for _, exe := range executables {
			if err := os.Chmod(exe, 0o755); err != nil {
				return fmt.Errorf("marking %s executable: %w", exe, err)
			}
		}
		for _, l := range links {
			if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
				return err
			}
			os.Remove(l.path)
			if err := os.Symlink(l.target, l.path); err != nil && runtime.GOOS != "windows" {
				return fmt.Errorf("linking %s -> %s: %w", l.path, l.target, err)
			}
		}
		return writeReleaseFile(root, entry.Version.Name)
	})

	eng := download.NewEngine()
	if err := eng.Run(ctx, list, nil); err != nil {
		return nil, fmt.Errorf("provisioning jvm %s: %w", component, err)
	}

	javaExec, err := findJavaExecutable(root)
	if err != nil {
		return nil, err
	}

	version, err := readReleaseVersion(root)
	if err != nil {
		version = entry.Version.Name
	}

	return &Runtime{Dir: root, JavaExecutable: javaExec, Version: version}, nil
}

// ExpectedBinaryName is the java launcher binary name prepare_jvm looks
// for: bin/java on Unix, bin/javaw.exe on Windows (the windowed launcher,
// per spec ยง4.4).
func ExpectedBinaryName() string {
	if runtime.GOOS == "windows" {
		return "javaw.exe"
	}
	return "java"
}

func javaBinaryName() string { return ExpectedBinaryName() }

func findJavaExecutable(root string) (string, error) {
	exe := filepath.Join(root, "bin", javaBinaryName())
	if info, err := os.Stat(exe); err == nil && !info.IsDir() {
		return exe, nil
	}
	return "", fmt.Errorf("java executable not found under %s", root)
}

// Existing checks whether component is already provisioned under jvmDir,
// without performing any network access. The display version is read from
// the release file, falling back to "unknown" per spec ยง4.4.
func Existing(jvmDir, component string) (*Runtime, bool) {
	root := filepath.Join(jvmDir, component)
	exe, err := findJavaExecutable(root)
	if err != nil {
		return nil, false
	}

	version, err := readReleaseVersion(root)
	if err != nil {
		version = "unknown"
	}
	return &Runtime{Dir: root, JavaExecutable: exe, Version: version}, true
}
