// Package main is the entry point for the iam-entitlements application.
package main

import (
	"fmt"
	"os"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/flag"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
	"github.com/thirukguru/iam-entitlements/service/storage"
	"github.com/thirukguru/iam-entitlements/shared/banner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db", "history":
			return runStorageCommand(os.Args[1], os.Args[2:])
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}

	if flags.Version {
		fmt.Printf("iam-entitlements %s (commit %s, built %s)\n", versionInfo.Version, versionInfo.Commit, versionInfo.Date)
		return nil
	}

	if flags.Output != "json" {
		banner.DrawBannerTitle()
	}

	var storageService storage.Service
	if flags.Store || flags.Trends || flags.Compare || flags.ExportJSON != "" || flags.ExportCSV != "" {
		storageService, err = storage.NewService(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer storageService.Close()
	}

	if flags.Trends {
		if storageService == nil {
			return fmt.Errorf("--trends requires initialized storage")
		}
		return runTrendWorkflow(storageService, trendOptions{
			TrendDays:  flags.TrendDays,
			Compare:    flags.Compare,
			ExportJSON: flags.ExportJSON,
			ExportCSV:  flags.ExportCSV,
			Target:     flags.Target,
		})
	}

	rs, err := ruleset.Load(flags.Ruleset)
	if err != nil {
		return err
	}

	return runAnalysis(flags, versionInfo, rs, storageService)
}
