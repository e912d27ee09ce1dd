// Command gen-docs writes markdown pages for the generated SDK.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/johan/hyblock-capital-sdk/internal/app"
	"github.com/johan/hyblock-capital-sdk/internal/config"
	"github.com/johan/hyblock-capital-sdk/internal/docs"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	sdkDir := flag.String("sdk", "", "Generated SDK directory (default from config)")
	outDir := flag.String("out", "", "Output directory (default from config)")
	dryRun := flag.Bool("dry-run", false, "List the files that would be written")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	a, err := app.Load(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dc := a.Config.Docs
	if *sdkDir != "" {
		dc.SDKDir = *sdkDir
	}
	if *outDir != "" {
		dc.OutputDir = *outDir
	}

	baseURL := config.DefaultAPIURL
	if creds, err := config.LoadCredentials(".env"); err == nil {
		baseURL = creds.APIURL
	}

	s := &docs.Stamper{
		SDKDir:     dc.SDKDir,
		OutputDir:  dc.OutputDir,
		ImportPath: dc.ImportPath,
		BaseURL:    baseURL,
		DryRun:     *dryRun,
		Log:        a.Log.Named("docs"),
	}
	report, err := s.Generate()
	if err != nil {
		a.Fatal("", "Generating docs failed", err)
	}
	if len(report.Skipped) > 0 {
		a.Log.Infow("APIs without generated source", "apis", report.Skipped)
	}
	a.Log.Infow("Documentation generated", "files", len(report.Written), "dir", dc.OutputDir)
	a.Close("")
}
