package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/thirukguru/iam-entitlements/service/storage"
	"github.com/thirukguru/iam-entitlements/shared/trends"
)

func runStorageCommand(cmd string, args []string) error {
	switch cmd {
	case "db":
		return runDBCommand(args)
	case "history":
		return runHistoryCommand(args)
	default:
		return fmt.Errorf("unsupported command: %s", cmd)
	}
}

func runDBCommand(args []string) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	olderThan := fs.Int("older-than", 30, "Purge runs older than N days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: iam-entitlements db <vacuum|reindex|purge> [--db-path ...]")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "vacuum":
		return store.Vacuum(context.Background())
	case "reindex":
		return store.Reindex(context.Background())
	case "purge":
		count, err := store.PurgeOlderThan(context.Background(), *olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d runs\n", count)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", sub)
	}
}

func runHistoryCommand(args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	target := fs.String("target", "", "Analysis target filter")
	limit := fs.Int("limit", 20, "Number of rows to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: iam-entitlements history <list|show|finding>")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "list":
		runs, err := store.GetRecentRuns(*target, *limit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%d\t%s\t%s\t%s\t%d\n", r.RunID, r.RunTimestamp.Format("2006-01-02 15:04:05"), r.Target, r.Provider, r.TotalFindings)
		}
		return nil
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("usage: iam-entitlements history show <run-id>")
		}
		runID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return err
		}
		findings, err := store.ListFindings(runID)
		if err != nil {
			return err
		}
		for _, f := range findings {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n", f.Severity, f.Category, f.RuleType, f.ResourceID, f.Title)
		}
		return nil
	case "finding":
		if len(rest) < 2 {
			return fmt.Errorf("usage: iam-entitlements history finding <hash>")
		}
		events, err := store.GetFindingLifecycle(rest[1])
		if err != nil {
			return err
		}
		for _, e := range events {
			fmt.Printf("run=%d\t%s\t%s\t%s\t%s\n", e.RunID, e.RunTimestamp.Format("2006-01-02 15:04:05"), e.Status, e.Severity, e.ResourceID)
		}
		return nil
	default:
		return fmt.Errorf("unsupported history command: %s", sub)
	}
}

type trendOptions struct {
	TrendDays  int
	Compare    bool
	ExportJSON string
	ExportCSV  string
	Target     string
}

func runTrendWorkflow(store storage.Service, opts trendOptions) error {
	points, err := store.GetTrends(opts.Target, opts.TrendDays)
	if err != nil {
		return err
	}
	trends.RenderTrendTable(points)

	if opts.Compare {
		runs, err := store.GetRecentRuns(opts.Target, 2)
		if err == nil && len(runs) >= 2 {
			cmp, err := store.GetRunComparison(runs[1].RunID, runs[0].RunID)
			if err == nil {
				trends.RenderComparisonTable(cmp)
			}
		}
	}

	if strings.TrimSpace(opts.ExportJSON) != "" {
		b, err := json.MarshalIndent(points, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.ExportJSON, b, 0o644); err != nil {
			return err
		}
	}
	if strings.TrimSpace(opts.ExportCSV) != "" {
		f, err := os.Create(opts.ExportCSV)
		if err != nil {
			return err
		}
		defer f.Close()
		w := csv.NewWriter(f)
		defer w.Flush()
		_ = w.Write([]string{"target", "date", "total", "critical", "high", "medium", "low", "info", "score"})
		for _, p := range points {
			_ = w.Write([]string{p.Target, p.Date, strconv.Itoa(p.Total), strconv.Itoa(p.Critical), strconv.Itoa(p.High), strconv.Itoa(p.Medium), strconv.Itoa(p.Low), strconv.Itoa(p.Info), strconv.Itoa(p.Score)})
		}
	}

	return nil
}
