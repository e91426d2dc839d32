package install

import (
	"testing"

	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/metadata"
)

func TestPrepareLoggerSkipsWhenAbsent(t *testing.T) {
	c := testContext(t)
	vm := &metadata.VersionMetadata{ID: "1.8"}
	list := download.NewList()

	res, err := PrepareLogger(c, vm, list)
	if err != nil {
		t.Fatal(err)
	}
	if res.FilePath != "" || res.Argument != "" || list.Count() != 0 {
		t.Errorf("expected no-op result, got %+v with %d queued", res, list.Count())
	}
}

func TestPrepareLoggerEnqueuesConfigFile(t *testing.T) {
	c := testContext(t)
	vm := &metadata.VersionMetadata{
		ID: "1.12",
		Logging: &metadata.Logging{
			Client: &metadata.LoggingClient{
				Argument: "-Dlog4j.configurationFile=${path}",
				Type:     "log4j2-xml",
				File: metadata.LoggingFileRef{
					ID:   "client-1.12.xml",
					SHA1: "abc",
					Size: 100,
					URL:  "https://example/client-1.12.xml",
				},
			},
		},
	}
	list := download.NewList()

	res, err := PrepareLogger(c, vm, list)
	if err != nil {
		t.Fatal(err)
	}
	if res.Argument != "-Dlog4j.configurationFile=${path}" {
		t.Errorf("Argument = %q", res.Argument)
	}
	if list.Count() != 1 {
		t.Errorf("list.Count() = %d, want 1", list.Count())
	}
}
