// Command generate-sdk downloads the Hyblock OpenAPI document, runs the
// external generator and moves the generated Go package into the project.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/johan/hyblock-capital-sdk/internal/app"
	"github.com/johan/hyblock-capital-sdk/internal/generator"
	"github.com/johan/hyblock-capital-sdk/internal/project"
	"github.com/johan/hyblock-capital-sdk/internal/specfetch"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	specURL := flag.String("spec-url", "", "Override the OpenAPI document URL")
	skipPost := flag.Bool("skip-post", false, "Skip go mod tidy, gofmt and go build in the generated package")
	keepTemp := flag.Bool("keep-temp", false, "Keep the temporary work directory")
	check := flag.Bool("check", false, "Verify project scaffolding and exit")
	metricsPath := flag.String("metrics", "", "Write Prometheus metrics to this textfile on exit")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	a, err := app.Load(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts := options{
		specURL:  *specURL,
		skipPost: *skipPost,
		keepTemp: *keepTemp,
		check:    *check,
		runner:   generator.ExecRunner{},
	}
	if err := run(a, opts); err != nil {
		a.Fatal(*metricsPath, "Generation failed", err)
	}
	a.Close(*metricsPath)
}

type options struct {
	specURL  string
	skipPost bool
	keepTemp bool
	check    bool
	runner   generator.Runner
}

// run does the work of main and never exits the process.
func run(a *app.App, opts options) error {
	log := a.Log.Named("generate")
	gc := a.Config.Generator

	projectDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}

	if opts.check {
		if err := project.Verify(projectDir); err != nil {
			return fmt.Errorf("scaffolding check: %w", err)
		}
		log.Info("Scaffolding complete")
		return nil
	}

	if opts.specURL != "" {
		gc.SpecURL = opts.specURL
	}

	pkgCfg, err := generator.LoadPackageConfig(gc.ConfigFile)
	if err != nil {
		return err
	}
	if keys := pkgCfg.OptionKeys(); len(keys) > 0 {
		log.Debugw("Generator options passed through", "options", keys)
	}

	ctx, cancel := app.SignalContext()
	defer cancel()

	inv := generator.NewInvoker(opts.runner, log)
	inv.Binary = gc.Binary
	inv.Lang = gc.Lang

	if err := inv.Preflight(ctx); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}

	workDir, err := os.MkdirTemp("", "hyblock-sdk-*")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	if opts.keepTemp {
		log.Infow("Keeping work directory", "dir", workDir)
	} else {
		defer os.RemoveAll(workDir)
	}

	specFile := filepath.Join(workDir, "swagger.json")
	outDir := filepath.Join(workDir, "generated")
	target := filepath.Join(projectDir, gc.SDKDir)
	fetcher := specfetch.New(&http.Client{Timeout: a.Config.API.Timeout})

	pipeline := generator.NewPipeline(log, a.Metrics).
		Add("download specification", func(ctx context.Context) error {
			doc, err := fetcher.Fetch(ctx, gc.SpecURL, specFile)
			if err != nil {
				return err
			}
			log.Infow("Specification downloaded", "version", doc.Version, "title", doc.Title, "paths", doc.Paths)
			return nil
		}).
		Add("generate client", func(ctx context.Context) error {
			return inv.Generate(ctx, specFile, gc.ConfigFile, outDir, pkgCfg.PackageName)
		}).
		Add("organize files", func(context.Context) error {
			res, err := generator.Organizer{
				OutputDir:      outDir,
				SourceSubdir:   gc.SourceSubdir,
				TargetDir:      target,
				ProjectDir:     projectDir,
				ReferenceFiles: gc.ReferenceFiles,
			}.Organize()
			if err != nil {
				return err
			}
			if res.Backup != "" {
				log.Warnw("Existing SDK backed up", "backup", res.Backup)
			}
			for _, ref := range res.References {
				log.Infow("Reference file copied", "file", ref)
			}
			log.Infow("SDK moved", "dir", res.Target)
			return nil
		})

	if !gc.SkipPostSteps && !opts.skipPost {
		pipeline.Add("verify package", func(ctx context.Context) error {
			return inv.PostProcess(ctx, target)
		})
	}

	log.Infow("Pipeline ready", "steps", pipeline.Steps())
	if err := pipeline.Run(ctx); err != nil {
		return err
	}

	log.Infow("SDK generated", "dir", target, "package", pkgCfg.PackageName, "version", pkgCfg.PackageVersion)
	return nil
}
