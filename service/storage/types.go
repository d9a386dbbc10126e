package storage

import (
	"context"
	"time"
)

// Service defines persistence and trend query operations for analysis runs.
type Service interface {
	SaveRun(ctx context.Context, input SaveRunInput) (int64, error)
	GetTrends(target string, days int) ([]TrendPoint, error)
	GetRecentRuns(target string, limit int) ([]RunSummary, error)
	GetRunComparison(runID1, runID2 int64) (*RunComparison, error)
	GetFindingLifecycle(findingHash string) ([]FindingLifecycleEvent, error)
	ListFindings(runID int64) ([]FindingSnapshot, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveRunInput is the payload saved for a completed analysis run.
type SaveRunInput struct {
	RunUUID           string
	Target            string
	Provider          string
	PolicyCount       int
	DurationSec       int64
	Version           string
	FlagsJSON         string
	CriticalCount     int
	HighCount         int
	MediumCount       int
	LowCount          int
	InfoCount         int
	AvgRiskScore      float64
	AvgLeastPrivilege float64
	Findings          []Finding
}

// Finding is one stored analysis finding, either a policy issue or a
// normalized access finding, used for lifecycle tracking across runs.
type Finding struct {
	Hash           string
	Category       string
	RuleType       string
	Severity       string
	ResourceType   string
	ResourceID     string
	ResourceARN    string
	Title          string
	Description    string
	Recommendation string
	ComplianceTags string
}

// Finding categories stored in the history database.
const (
	CategoryPolicy  = "policy"
	CategoryFinding = "finding"
)

// TrendPoint is a daily aggregate per target.
type TrendPoint struct {
	Target   string `json:"target"`
	Date     string `json:"date"`
	Total    int    `json:"total"`
	Critical int    `json:"critical"`
	High     int    `json:"high"`
	Medium   int    `json:"medium"`
	Low      int    `json:"low"`
	Info     int    `json:"info"`
	Score    int    `json:"score"`
}

// RunSummary provides compact run metadata.
type RunSummary struct {
	RunID         int64
	RunUUID       string
	Target        string
	Provider      string
	RunTimestamp  time.Time
	TotalFindings int
	CriticalCount int
	HighCount     int
	MediumCount   int
	LowCount      int
	InfoCount     int
	Version       string
}

// RunComparison holds diff details between two runs.
type RunComparison struct {
	RunID1         int64
	RunID2         int64
	NewFindings    int
	Resolved       int
	Persistent     int
	NewHashes      []string
	ResolvedHashes []string
}

// FindingLifecycleEvent represents finding status at a given run timestamp.
type FindingLifecycleEvent struct {
	RunID        int64
	RunTimestamp time.Time
	Status       string
	Severity     string
	Category     string
	ResourceID   string
}

// FindingSnapshot is a run-time finding view.
type FindingSnapshot struct {
	FindingHash string
	Category    string
	RuleType    string
	Severity    string
	ResourceID  string
	Title       string
	Status      string
}
