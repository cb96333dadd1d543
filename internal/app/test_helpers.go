package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/vk/gobundle/internal/hcl_adapter"
	"github.com/vk/gobundle/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. It returns the
// app, the buffer receiving bundles and explanations, and the log buffer.
func SetupAppTest(t *testing.T, appConfig *Config) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	out := &bytes.Buffer{}
	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp := NewApp(out, logBuffer, appConfig, hcl_adapter.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("GOBUNDLE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, out, logBuffer
}
