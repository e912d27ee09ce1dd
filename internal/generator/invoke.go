package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/johan/hyblock-capital-sdk/internal/logger"
)

const (
	// DefaultBinary is the openapi-generator command-line wrapper.
	DefaultBinary = "openapi-generator-cli"

	// DefaultLang is the generator target.
	DefaultLang = "go"
)

// ErrToolMissing is returned by Preflight when a required tool cannot run.
var ErrToolMissing = errors.New("required tool not available")

// Invoker runs the external generator.
type Invoker struct {
	Runner Runner
	Binary string
	Lang   string
	Log    *logger.Logger
}

// NewInvoker creates an Invoker with the default binary and language.
func NewInvoker(r Runner, log *logger.Logger) *Invoker {
	if r == nil {
		r = ExecRunner{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Invoker{Runner: r, Binary: DefaultBinary, Lang: DefaultLang, Log: log}
}

// GenerateCommand builds the generator command line.
func (i *Invoker) GenerateCommand(spec, configFile, outDir, packageName string) Command {
	return Command{
		Name: i.Binary,
		Args: []string{
			"generate",
			"-i", spec,
			"-g", i.Lang,
			"-o", outDir,
			"-c", configFile,
			"--additional-properties", "packageName=" + packageName,
		},
	}
}

// Generate runs the generator. A non-zero exit returns *ExitError with the
// captured output.
func (i *Invoker) Generate(ctx context.Context, spec, configFile, outDir, packageName string) error {
	cmd := i.GenerateCommand(spec, configFile, outDir, packageName)
	i.Log.Debugw("Running generator", "command", cmd.String())

	res, err := run(ctx, i.Runner, cmd)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			i.Log.Errorw("Generator failed",
				"exit_code", exitErr.ExitCode,
				"stdout", exitErr.Stdout,
				"stderr", exitErr.Stderr,
			)
		}
		return fmt.Errorf("generating client: %w", err)
	}
	i.Log.Debugw("Generator output", "stdout", res.Stdout)
	return nil
}

// Preflight checks that java and the generator binary can run. There is no
// automatic install; the error names how to get the missing tool.
func (i *Invoker) Preflight(ctx context.Context) error {
	checks := []struct {
		cmd  Command
		hint string
	}{
		{Command{Name: "java", Args: []string{"-version"}}, "install a JRE from https://adoptium.net/"},
		{Command{Name: i.Binary, Args: []string{"version"}}, "install with: npm install -g @openapitools/openapi-generator-cli"},
	}
	for _, c := range checks {
		if _, err := run(ctx, i.Runner, c.cmd); err != nil {
			return fmt.Errorf("%w: %s (%v); %s", ErrToolMissing, c.cmd.Name, err, c.hint)
		}
	}
	return nil
}

// PostProcess tidies, formats and builds the generated package in sdkDir.
// Tidy and format failures are logged; a build failure is returned.
func (i *Invoker) PostProcess(ctx context.Context, sdkDir string) error {
	warnOnly := []Command{
		{Name: "go", Args: []string{"mod", "tidy"}, Dir: sdkDir},
		{Name: "gofmt", Args: []string{"-w", "."}, Dir: sdkDir},
	}
	for _, c := range warnOnly {
		if _, err := run(ctx, i.Runner, c); err != nil {
			i.Log.Warnw("Post-processing step failed, continuing", "command", c.String(), "error", err)
		}
	}

	build := Command{Name: "go", Args: []string{"build", "./..."}, Dir: sdkDir}
	if _, err := run(ctx, i.Runner, build); err != nil {
		return fmt.Errorf("verifying generated package: %w", err)
	}
	return nil
}
