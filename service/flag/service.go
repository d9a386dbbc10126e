package flag

import (
	"github.com/spf13/pflag"

	"github.com/thirukguru/iam-entitlements/model"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags.
func (s *service) GetParsedFlags() (model.Flags, error) {
	policies := pflag.StringP("policies", "p", "", "Policy JSON file or directory of .json policy files")
	findings := pflag.StringP("findings", "f", "", "Raw findings JSON file (array of provider records)")
	provider := pflag.String("provider", "aws-access-analyzer", "Finding provider for field mapping")
	identity := pflag.StringP("identity", "i", "", "Analyze all policies as one identity with the given name")
	rulesetPath := pflag.String("ruleset", "", "YAML ruleset overriding the built-in catalogs")
	target := pflag.StringP("target", "t", "", "Label for this analysis target (account, identity, repo)")
	demo := pflag.Bool("demo", false, "Analyze bundled demo findings instead of reading input files")
	version := pflag.BoolP("version", "v", false, "Show version information")
	output := pflag.StringP("output", "o", "table", "Output format (table or json)")
	outputFile := pflag.String("output-file", "", "Write the JSON report to a file instead of stdout")
	store := pflag.Bool("store", false, "Persist analysis results in local SQLite database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.iam-entitlements/history.db)")
	trends := pflag.Bool("trends", false, "Show historical trends from stored runs")
	trendDays := pflag.Int("trend-days", 30, "Number of days for trend analysis")
	compare := pflag.Bool("compare", false, "Compare two most recent runs")
	exportJSON := pflag.String("export-json", "", "Export trend output as JSON to file path")
	exportCSV := pflag.String("export-csv", "", "Export trend output as CSV to file path")
	topFactors := pflag.Int("top-factors", 5, "Number of top risk factors in the summary")

	pflag.Parse()

	flags := model.Flags{
		Policies:   *policies,
		Findings:   *findings,
		Provider:   *provider,
		Identity:   *identity,
		Ruleset:    *rulesetPath,
		Target:     *target,
		Demo:       *demo,
		Version:    *version,
		Output:     *output,
		OutputFile: *outputFile,
		Store:      *store,
		DBPath:     *dbPath,
		Trends:     *trends,
		TrendDays:  *trendDays,
		Compare:    *compare,
		ExportJSON: *exportJSON,
		ExportCSV:  *exportCSV,
		TopFactors: *topFactors,
	}

	return flags, nil
}
