package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/hyblock-capital-sdk/internal/app"
	"github.com/johan/hyblock-capital-sdk/internal/config"
	"github.com/johan/hyblock-capital-sdk/internal/generator"
	"github.com/johan/hyblock-capital-sdk/internal/logger"
	"github.com/johan/hyblock-capital-sdk/internal/metrics"
	"github.com/johan/hyblock-capital-sdk/internal/specfetch"
)

// okRunner reports success for every command.
type okRunner struct{ calls []generator.Command }

func (r *okRunner) Run(_ context.Context, c generator.Command) (generator.Result, error) {
	r.calls = append(r.calls, c)
	return generator.Result{}, nil
}

const packageConfig = `{
  "packageName": "hyblockcapital",
  "packageVersion": "1.0.0",
  "clientPackage": "hyblockcapital",
  "packageAuthor": "test",
  "packageDescription": "Go client for the Hyblock Capital API"
}`

func testApp(t *testing.T, specURL string) *app.App {
	t.Helper()
	project := t.TempDir()
	chdir(t, project)
	require.NoError(t, os.WriteFile(filepath.Join(project, "openapi-generator-config.json"), []byte(packageConfig), 0o644))

	cfg := config.DefaultConfig()
	cfg.Generator.SpecURL = specURL
	cfg.Generator.ConfigFile = "openapi-generator-config.json"
	return &app.App{Config: cfg, Log: logger.Nop(), Metrics: metrics.New()}
}

func TestRunRemovesWorkDirOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	a := testApp(t, srv.URL)
	runner := &okRunner{}
	err := run(a, options{runner: runner})
	require.Error(t, err)
	assert.ErrorIs(t, err, specfetch.ErrInvalidJSON)

	var stepErr *generator.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "download specification", stepErr.Step)

	left, err := filepath.Glob(filepath.Join(tmp, "hyblock-sdk-*"))
	require.NoError(t, err)
	assert.Empty(t, left, "work directory left behind")
	assert.Len(t, runner.calls, 2, "only the preflight commands ran")
}

func TestRunKeepTemp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	err := run(testApp(t, srv.URL), options{runner: &okRunner{}, keepTemp: true})
	require.Error(t, err)

	left, err := filepath.Glob(filepath.Join(tmp, "hyblock-sdk-*"))
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
