package platform

import "testing"

func TestOSIDKnown(t *testing.T) {
	id := OSID()
	switch id {
	case Linux, Windows, OSX, "":
	default:
		t.Fatalf("unexpected os id %q", id)
	}
}

func TestJVMOSTableShape(t *testing.T) {
	cases := []struct {
		os, arch, want string
	}{
		{OSX, X86, "mac-os"},
		{Linux, X86, "linux-i386"},
		{Linux, X86_64, "linux"},
		{Windows, X86, "windows-x86"},
		{Windows, X86_64, "windows-x64"},
	}
	for _, c := range cases {
		got := jvmOSTable[c.os][c.arch]
		if got != c.want {
			t.Errorf("jvmOSTable[%s][%s] = %q, want %q", c.os, c.arch, got, c.want)
		}
	}
}

func TestJVMOSUnknownCombination(t *testing.T) {
	if got := jvmOSTable[OSX][X86_64]; got != "" {
		t.Errorf("osx/x86_64 should be unknown, got %q", got)
	}
}
