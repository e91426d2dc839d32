// Command launchpi is a thin demonstration of the core: given a version id
// it installs that version into the default Context and launches it
// offline. It is not the front end the core's spec explicitly excludes
// (argument parsing, progress rendering, a message catalog); it exists to
// exercise resolve -> install -> launch end to end.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/download"
	"github.com/quasar/launchpi/internal/install"
	"github.com/quasar/launchpi/internal/launch"
	"github.com/quasar/launchpi/internal/manifest"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: launchpi <version-id>")
		os.Exit(1)
	}
	versionID := os.Args[1]

	if err := run(versionID); err != nil {
		fmt.Fprintln(os.Stderr, "launchpi:", err)
		os.Exit(1)
	}
}

func run(versionID string) error {
	ctx := context.Background()

	c := config.DefaultContext()
	if err := c.EnsureDirs(); err != nil {
		return fmt.Errorf("preparing directories: %w", err)
	}

	installer := install.New(c, manifest.New())

	progress := make(chan download.Progress)
	go func() {
		for p := range progress {
			fmt.Printf("\rdownloading: %d bytes", p.GlobalSize)
		}
	}()

	plan, err := installer.Install(ctx, versionID, progress)
	close(progress)
	if err != nil {
		return fmt.Errorf("installing %s: %w", versionID, err)
	}
	fmt.Println()

	launcher := launch.NewLauncher(c, &launch.Options{
		Plan:     plan,
		Username: "Player",
	}, nil)

	return launcher.Launch(ctx)
}
