package integration_tests

import (
	"context"
	"os"
	"testing"

	"github.com/vk/gobundle/internal/app"
	"github.com/vk/gobundle/internal/cli"
	"github.com/vk/gobundle/internal/testutil"
)

// runCLI parses args the way the binary does and runs the app, returning
// the bundle output stream and the run error.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	errOut := &testutil.SafeBuffer{}
	cfg, shouldExit, err := cli.Parse(args, errOut)
	if err != nil || shouldExit {
		return "", err
	}
	testApp, out, _ := app.SetupAppTest(t, cfg)
	runErr := testApp.Run(context.Background(), cfg)
	return out.String(), runErr
}

// unsetEnv clears the gobundle environment defaults for one test.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{cli.EnvRoot, cli.EnvLogLevel, cli.EnvLogFormat} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}
