package jvm

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// releaseVersionRegex matches a JDK release file's JAVA_VERSION line, e.g.
// JAVA_VERSION="21.0.1". Adapted from the teacher's java.versionRegex idiom,
// applied to the release file Mojang ships instead of `java -version`
// output, since prepare_jvm never shells out to probe the runtime.
var releaseVersionRegex = regexp.MustCompile(`^JAVA_VERSION="([^"]+)"$`)

func writeReleaseFile(root, version string) error {
	if version == "" {
		return nil
	}
	path := filepath.Join(root, "release")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := fmt.Sprintf("JAVA_VERSION=\"%s\"\n", version)
	return os.WriteFile(path, []byte(content), 0o644)
}

func readReleaseVersion(root string) (string, error) {
	f, err := os.Open(filepath.Join(root, "release"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m := releaseVersionRegex.FindStringSubmatch(line); len(m) > 1 {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no JAVA_VERSION entry in release file")
}
