package model

// Flags represents the parsed command line flags.
type Flags struct {
	Policies   string
	Findings   string
	Provider   string
	Identity   string
	Ruleset    string
	Target     string
	Demo       bool
	Version    bool
	Output     string
	OutputFile string
	Store      bool
	DBPath     string
	Trends     bool
	TrendDays  int
	Compare    bool
	ExportJSON string
	ExportCSV  string
	TopFactors int
}
