// Package platform derives the OS/architecture tuple used by rule
// evaluation and JVM-manifest lookup.
package platform

import (
	"runtime"
	"sync"
)

// OS identifiers as used in version metadata rules.
const (
	Linux   = "linux"
	Windows = "windows"
	OSX     = "osx"
)

// Architecture identifiers as used in version metadata rules.
const (
	X86    = "x86"
	X86_64 = "x86_64"
)

var (
	osOnce   sync.Once
	osID     string
	archOnce sync.Once
	archID   string
	bitsOnce sync.Once
	bitsID   string
	jvmOnce  sync.Once
	jvmOSID  string
)

// OSID returns "linux", "windows", "osx", or "" if the host OS is unrecognized.
func OSID() string {
	osOnce.Do(func() {
		switch runtime.GOOS {
		case "linux":
			osID = Linux
		case "windows":
			osID = Windows
		case "darwin":
			osID = OSX
		default:
			osID = ""
		}
	})
	return osID
}

// ArchID returns "x86", "x86_64", or "" if the host architecture is unrecognized.
func ArchID() string {
	archOnce.Do(func() {
		switch runtime.GOARCH {
		case "386":
			archID = X86
		case "amd64", "arm64":
			// arm64 has no dedicated bucket in the rule vocabulary; treat it
			// like x86_64 for classpath/native purposes where unavoidable,
			// but JVM-OS lookup below still yields "" for it (see JVMOSID).
			archID = X86_64
		default:
			archID = ""
		}
	})
	return archID
}

// Bits returns "32", "64", or "" if the pointer size can't be determined.
func Bits() string {
	bitsOnce.Do(func() {
		switch runtime.GOARCH {
		case "386", "arm":
			bitsID = "32"
		case "amd64", "arm64":
			bitsID = "64"
		default:
			bitsID = ""
		}
	})
	return bitsID
}

var jvmOSTable = map[string]map[string]string{
	OSX:     {X86: "mac-os"},
	Linux:   {X86: "linux-i386", X86_64: "linux"},
	Windows: {X86: "windows-x86", X86_64: "windows-x64"},
}

// JVMOSID returns the OS identifier used to pick a JVM runtime from Mojang's
// aggregate manifest, or "" if the current os/arch combination is unknown.
func JVMOSID() string {
	jvmOnce.Do(func() {
		if runtime.GOARCH == "arm64" {
			return
		}
		if byArch, ok := jvmOSTable[OSID()]; ok {
			jvmOSID = byArch[ArchID()]
		}
	})
	return jvmOSID
}
