package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vk/gobundle/internal/app"
	"github.com/vk/gobundle/internal/testutil"
)

// runProblem writes the contest library plus files, bundles problem "p" and
// returns the output path and the run error.
func runProblem(t *testing.T, files map[string]string) (string, error) {
	t.Helper()

	root := testutil.WriteProject(t, testutil.Merge(testutil.ContestLibrary(), files))
	appConfig, err := app.NewConfig(app.Config{Problem: "p", Root: root})
	if err != nil {
		t.Fatalf("app.NewConfig() failed: %v", err)
	}
	testApp, _, _ := app.SetupAppTest(t, appConfig)
	runErr := testApp.Run(context.Background(), appConfig)
	return filepath.Join(root, "bundled", "p.go"), runErr
}

func assertNoOutput(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no bundle at %s after a failed run, stat error: %v", path, err)
	}
}
