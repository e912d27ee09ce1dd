package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records commands and answers from a table keyed by command name.
type fakeRunner struct {
	calls   []Command
	results map[string]Result
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, c Command) (Result, error) {
	f.calls = append(f.calls, c)
	if err := f.errs[c.Name+" "+firstArg(c)]; err != nil {
		return Result{}, err
	}
	return f.results[c.Name+" "+firstArg(c)], nil
}

func firstArg(c Command) string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

const validConfig = `{
  "packageName": "hyblockcapital",
  "packageVersion": "1.0.0",
  "clientPackage": "hyblockcapital",
  "packageAuthor": "Hyblock SDK maintainers",
  "packageDescription": "Go client for the Hyblock Capital API",
  "library": "",
  "generateSourceCodeOnly": false,
  "isGoSubmodule": true,
  "enumClassPrefix": true
}`

func TestParsePackageConfig(t *testing.T) {
	cfg, err := ParsePackageConfig([]byte(validConfig))
	require.NoError(t, err)

	assert.Equal(t, "hyblockcapital", cfg.PackageName)
	assert.Equal(t, "1.0.0", cfg.PackageVersion)
	assert.False(t, cfg.GenerateSourceCodeOnly)
	assert.Equal(t, []string{"enumClassPrefix", "isGoSubmodule"}, cfg.OptionKeys())
}

func TestParsePackageConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"missing fields", `{"packageName":"x","clientPackage":"x"}`, "missing packageVersion, packageAuthor, packageDescription"},
		{"name mismatch", `{"packageName":"a","clientPackage":"b","packageVersion":"1","packageAuthor":"me","packageDescription":"d"}`, "does not match"},
		{"bad library", `{"packageName":"a","clientPackage":"a","packageVersion":"1","packageAuthor":"me","packageDescription":"d","library":5}`, "library"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePackageConfig([]byte(tt.json))
			require.ErrorIs(t, err, ErrInvalidPackageConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ParsePackageConfig([]byte("{"))
	assert.Error(t, err)
}

func TestLoadPackageConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi-generator-config.json")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o644))

	cfg, err := LoadPackageConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "hyblockcapital", cfg.ClientPackage)

	_, err = LoadPackageConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateCommand(t *testing.T) {
	r := &fakeRunner{}
	inv := NewInvoker(r, nil)

	require.NoError(t, inv.Generate(context.Background(), "swagger.json", "openapi-generator-config.json", "generated", "hyblockcapital"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "openapi-generator-cli", r.calls[0].Name)
	assert.Equal(t, []string{
		"generate",
		"-i", "swagger.json",
		"-g", "go",
		"-o", "generated",
		"-c", "openapi-generator-config.json",
		"--additional-properties", "packageName=hyblockcapital",
	}, r.calls[0].Args)
}

func TestGenerateExitError(t *testing.T) {
	r := &fakeRunner{results: map[string]Result{
		"openapi-generator-cli generate": {ExitCode: 1, Stdout: "parsing spec", Stderr: "invalid spec\nat line 3"},
	}}
	err := NewInvoker(r, nil).Generate(context.Background(), "s.json", "c.json", "out", "hyblockcapital")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.Equal(t, "parsing spec", exitErr.Stdout)
	assert.Equal(t, "invalid spec\nat line 3", exitErr.Stderr)
	assert.Contains(t, err.Error(), "invalid spec")
	assert.NotContains(t, err.Error(), "at line 3")
}

func TestPreflight(t *testing.T) {
	ok := &fakeRunner{}
	require.NoError(t, NewInvoker(ok, nil).Preflight(context.Background()))
	assert.Len(t, ok.calls, 2)

	noJava := &fakeRunner{errs: map[string]error{"java -version": errors.New("executable file not found")}}
	err := NewInvoker(noJava, nil).Preflight(context.Background())
	require.ErrorIs(t, err, ErrToolMissing)
	assert.Contains(t, err.Error(), "adoptium")
	assert.Len(t, noJava.calls, 1)

	noCLI := &fakeRunner{results: map[string]Result{"openapi-generator-cli version": {ExitCode: 127}}}
	err = NewInvoker(noCLI, nil).Preflight(context.Background())
	require.ErrorIs(t, err, ErrToolMissing)
	assert.Contains(t, err.Error(), "npm install")
}

func TestPostProcess(t *testing.T) {
	r := &fakeRunner{results: map[string]Result{"go mod": {ExitCode: 1, Stderr: "no network"}}}
	require.NoError(t, NewInvoker(r, nil).PostProcess(context.Background(), "sdk"))
	require.Len(t, r.calls, 3)
	for _, c := range r.calls {
		assert.Equal(t, "sdk", c.Dir)
	}

	failing := &fakeRunner{results: map[string]Result{"go build": {ExitCode: 1, Stderr: "undefined: Foo"}}}
	err := NewInvoker(failing, nil).PostProcess(context.Background(), "sdk")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, err.Error(), "undefined: Foo")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOrganize(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "tmp", "generated")
	writeFile(t, filepath.Join(out, "api_liquidity.go"), "package hyblockcapital\n")
	writeFile(t, filepath.Join(out, "README.md"), "# generated\n")
	writeFile(t, filepath.Join(out, "docs", "LiquidityAPI.md"), "docs\n")

	project := filepath.Join(root, "project")
	target := filepath.Join(project, "hyblockcapital")
	writeFile(t, filepath.Join(target, "old.go"), "package old\n")
	writeFile(t, target+BackupSuffix+"/stale.go", "package stale\n")

	res, err := Organizer{
		OutputDir:      out,
		TargetDir:      target,
		ProjectDir:     project,
		ReferenceFiles: []string{"README.md", "go.mod"},
	}.Organize()
	require.NoError(t, err)

	assert.Equal(t, target+BackupSuffix, res.Backup)
	assert.FileExists(t, filepath.Join(res.Backup, "old.go"))
	assert.NoFileExists(t, filepath.Join(res.Backup, "stale.go"))

	assert.FileExists(t, filepath.Join(target, "api_liquidity.go"))
	assert.FileExists(t, filepath.Join(target, "docs", "LiquidityAPI.md"))
	assert.NoDirExists(t, out)

	assert.Equal(t, []string{filepath.Join(project, "README.md.generated")}, res.References)
	data, err := os.ReadFile(res.References[0])
	require.NoError(t, err)
	assert.Equal(t, "# generated\n", string(data))
}

func TestOrganizeSubdirWithoutPreviousTarget(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "generated")
	writeFile(t, filepath.Join(out, "hyblockcapital", "client.go"), "package hyblockcapital\n")
	writeFile(t, filepath.Join(out, "go.mod"), "module x\n")

	target := filepath.Join(root, "sdk")
	res, err := Organizer{
		OutputDir:      out,
		SourceSubdir:   "hyblockcapital",
		TargetDir:      target,
		ProjectDir:     root,
		ReferenceFiles: []string{"go.mod"},
	}.Organize()
	require.NoError(t, err)
	assert.Empty(t, res.Backup)
	assert.FileExists(t, filepath.Join(target, "client.go"))
	assert.FileExists(t, filepath.Join(root, "go.mod.generated"))
}

func TestOrganizeMissingSources(t *testing.T) {
	root := t.TempDir()

	_, err := Organizer{OutputDir: filepath.Join(root, "nope"), TargetDir: filepath.Join(root, "sdk")}.Organize()
	assert.ErrorIs(t, err, ErrGeneratedDirMissing)

	empty := filepath.Join(root, "empty")
	writeFile(t, filepath.Join(empty, "README.md"), "x")
	target := filepath.Join(root, "sdk")
	writeFile(t, filepath.Join(target, "keep.go"), "package keep\n")

	_, err = Organizer{OutputDir: empty, TargetDir: target}.Organize()
	assert.ErrorIs(t, err, ErrGeneratedDirMissing)
	assert.FileExists(t, filepath.Join(target, "keep.go"), "target untouched")
}

func TestCopyTree(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "a.go"), "a")
	writeFile(t, filepath.Join(src, "nested", "b.go"), "b")

	dst := filepath.Join(root, "dst")
	require.NoError(t, copyTree(src, dst))
	assert.FileExists(t, filepath.Join(dst, "a.go"))
	assert.FileExists(t, filepath.Join(dst, "nested", "b.go"))
}

type recordingSteps struct {
	names []string
	oks   []bool
}

func (r *recordingSteps) ObserveStep(step string, ok bool, _ time.Duration) {
	r.names = append(r.names, step)
	r.oks = append(r.oks, ok)
}

func TestPipelineHaltsOnFirstFailure(t *testing.T) {
	obs := &recordingSteps{}
	var ran []string
	boom := errors.New("boom")

	p := NewPipeline(nil, obs).
		Add("download", func(context.Context) error { ran = append(ran, "download"); return nil }).
		Add("generate", func(context.Context) error { ran = append(ran, "generate"); return boom }).
		Add("organize", func(context.Context) error { ran = append(ran, "organize"); return nil })

	assert.Equal(t, []string{"download", "generate", "organize"}, p.Steps())

	err := p.Run(context.Background())
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "generate", stepErr.Step)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"download", "generate"}, ran)
	assert.Equal(t, []bool{true, false}, obs.oks)
}

func TestPipelineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewPipeline(nil, nil).Add("download", func(context.Context) error { called = true; return nil }).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
