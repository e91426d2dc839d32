package install

import (
	"context"

	"github.com/quasar/launchpi/internal/config"
	"github.com/quasar/launchpi/internal/jvm"
	"github.com/quasar/launchpi/internal/metadata"
)

// PrepareJVM resolves the JVM component a version requires, reusing an
// already-provisioned runtime without touching the network and falling
// back to provisioning it from Mojang's aggregate JVM manifest otherwise.
func PrepareJVM(ctx context.Context, c *config.Context, vm *metadata.VersionMetadata) (*jvm.Runtime, error) {
	component := vm.Component()

	if rt, ok := jvm.Existing(c.JVMDir(), component); ok {
		return rt, nil
	}

	return jvm.Provision(ctx, c.JVMDir(), component)
}
