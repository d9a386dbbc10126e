// Package storage persists analysis runs in a local SQLite database and
// answers trend and lifecycle queries over them. The analysis core stays
// stateless; this is the optional history layer behind --store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.iam-entitlements/history.db"

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

func (s *service) SaveRun(ctx context.Context, input SaveRunInput) (int64, error) {
	if input.Target == "" {
		return 0, errors.New("target is required")
	}
	if input.RunUUID == "" {
		input.RunUUID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_uuid, target, provider, run_duration, policy_count, total_findings,
			critical_count, high_count, medium_count, low_count, info_count,
			avg_risk_score, avg_least_privilege, cli_version, run_flags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.RunUUID, input.Target, input.Provider, input.DurationSec, input.PolicyCount, len(input.Findings),
		input.CriticalCount, input.HighCount, input.MediumCount, input.LowCount, input.InfoCount,
		input.AvgRiskScore, input.AvgLeastPrivilege, input.Version, input.FlagsJSON)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err = s.saveFindingsTx(ctx, tx, runID, input); err != nil {
		return 0, err
	}
	if err = s.saveRunMetricsTx(ctx, tx, runID, input); err != nil {
		return 0, err
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return runID, nil
}

func (s *service) saveFindingsTx(ctx context.Context, tx *sql.Tx, runID int64, input SaveRunInput) error {
	seen := make([]string, 0, len(input.Findings))
	now := time.Now().UTC().Format(time.RFC3339)

	for _, f := range input.Findings {
		if f.Hash == "" {
			continue
		}
		seen = append(seen, f.Hash)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO findings (
				target, finding_hash, category, rule_type, severity,
				resource_type, resource_id, resource_arn, title, description, recommendation,
				compliance_tags, first_seen, last_seen, status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'OPEN')
			ON CONFLICT(target, finding_hash) DO UPDATE SET
				category=excluded.category,
				rule_type=excluded.rule_type,
				severity=excluded.severity,
				resource_type=excluded.resource_type,
				resource_id=excluded.resource_id,
				resource_arn=excluded.resource_arn,
				title=excluded.title,
				description=excluded.description,
				recommendation=excluded.recommendation,
				compliance_tags=excluded.compliance_tags,
				last_seen=excluded.last_seen,
				resolved_at=NULL,
				status='OPEN'
		`, input.Target, f.Hash, f.Category, f.RuleType, f.Severity,
			f.ResourceType, f.ResourceID, f.ResourceARN, f.Title, f.Description, f.Recommendation,
			f.ComplianceTags, now, now)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_findings(run_id, finding_hash, severity, status, category, rule_type, resource_id, title)
			VALUES (?, ?, ?, 'OPEN', ?, ?, ?, ?)
		`, runID, f.Hash, f.Severity, f.Category, f.RuleType, f.ResourceID, f.Title)
		if err != nil {
			return err
		}
	}

	if len(seen) == 0 {
		_, err := tx.ExecContext(ctx, `
			UPDATE findings SET status='RESOLVED', resolved_at=?, last_seen=?
			WHERE target=? AND status='OPEN'
		`, now, now, input.Target)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_findings(run_id, finding_hash, severity, status, category, rule_type, resource_id, title)
			SELECT ?, finding_hash, severity, status, category, rule_type, resource_id, title
			FROM findings WHERE target=? AND status='RESOLVED' AND resolved_at=?
		`, runID, input.Target, now)
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seen)), ",")
	args := make([]any, 0, len(seen)+3)
	args = append(args, now, now, input.Target)
	for _, h := range seen {
		args = append(args, h)
	}

	query := fmt.Sprintf(`
		UPDATE findings SET status='RESOLVED', resolved_at=?, last_seen=?
		WHERE target=? AND status='OPEN' AND finding_hash NOT IN (%s)
	`, placeholders)
	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO run_findings(run_id, finding_hash, severity, status, category, rule_type, resource_id, title)
		SELECT ?, finding_hash, severity, status, category, rule_type, resource_id, title
		FROM findings WHERE target=? AND status='RESOLVED' AND resolved_at=?
	`, runID, input.Target, now)
	if err != nil {
		return err
	}

	return nil
}

func (s *service) saveRunMetricsTx(ctx context.Context, tx *sql.Tx, runID int64, input SaveRunInput) error {
	total := input.CriticalCount + input.HighCount + input.MediumCount + input.LowCount + input.InfoCount
	metrics := []struct {
		name string
		val  float64
		unit string
	}{
		{"total_findings", float64(total), "count"},
		{"policy_count", float64(input.PolicyCount), "count"},
		{"avg_risk_score", input.AvgRiskScore, "score"},
		{"avg_least_privilege", input.AvgLeastPrivilege, "score"},
		{"critical_count", float64(input.CriticalCount), "count"},
		{"high_count", float64(input.HighCount), "count"},
		{"medium_count", float64(input.MediumCount), "count"},
		{"low_count", float64(input.LowCount), "count"},
	}
	for _, m := range metrics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO metrics(run_id, metric_name, metric_value, metric_unit, category)
			VALUES (?, ?, ?, ?, 'Overall')
		`, runID, m.name, m.val, m.unit)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetTrends(target string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	query := `
		SELECT
			target,
			DATE(run_timestamp) as day,
			MAX(total_findings),
			MAX(critical_count),
			MAX(high_count),
			MAX(medium_count),
			MAX(low_count),
			MAX(info_count)
		FROM runs
		WHERE run_timestamp >= DATETIME('now', ?)
	`
	args := []any{fmt.Sprintf("-%d day", days)}
	if target != "" {
		query += " AND target=?"
		args = append(args, target)
	}
	query += " GROUP BY target, DATE(run_timestamp) ORDER BY day ASC, target ASC"
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Target, &p.Date, &p.Total, &p.Critical, &p.High, &p.Medium, &p.Low, &p.Info); err != nil {
			return nil, err
		}
		p.Score = 100 - p.Critical*15 - p.High*8 - p.Medium*3 - p.Low
		if p.Score < 0 {
			p.Score = 0
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *service) GetRecentRuns(target string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT run_id, run_uuid, target, provider, run_timestamp,
			total_findings, critical_count, high_count, medium_count, low_count, info_count, cli_version
		FROM runs
	`
	args := []any{}
	if target != "" {
		query += " WHERE target=?"
		args = append(args, target)
	}
	query += " ORDER BY run_timestamp DESC, run_id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			rsum     RunSummary
			provider sql.NullString
			version  sql.NullString
		)
		if err := rows.Scan(&rsum.RunID, &rsum.RunUUID, &rsum.Target, &provider, &rsum.RunTimestamp,
			&rsum.TotalFindings, &rsum.CriticalCount, &rsum.HighCount, &rsum.MediumCount, &rsum.LowCount,
			&rsum.InfoCount, &version); err != nil {
			return nil, err
		}
		rsum.Provider = provider.String
		rsum.Version = version.String
		runs = append(runs, rsum)
	}
	return runs, rows.Err()
}

func (s *service) GetRunComparison(runID1, runID2 int64) (*RunComparison, error) {
	first, err := s.findingHashesByRun(runID1)
	if err != nil {
		return nil, err
	}
	second, err := s.findingHashesByRun(runID2)
	if err != nil {
		return nil, err
	}

	firstSet := map[string]bool{}
	secondSet := map[string]bool{}
	for _, h := range first {
		firstSet[h] = true
	}
	for _, h := range second {
		secondSet[h] = true
	}

	cmp := &RunComparison{RunID1: runID1, RunID2: runID2}
	for h := range secondSet {
		if !firstSet[h] {
			cmp.NewHashes = append(cmp.NewHashes, h)
		}
	}
	for h := range firstSet {
		if !secondSet[h] {
			cmp.ResolvedHashes = append(cmp.ResolvedHashes, h)
		}
	}
	for h := range firstSet {
		if secondSet[h] {
			cmp.Persistent++
		}
	}
	cmp.NewFindings = len(cmp.NewHashes)
	cmp.Resolved = len(cmp.ResolvedHashes)
	return cmp, nil
}

func (s *service) findingHashesByRun(runID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT finding_hash FROM run_findings WHERE run_id=? AND status='OPEN'`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *service) GetFindingLifecycle(findingHash string) ([]FindingLifecycleEvent, error) {
	rows, err := s.db.Query(`
		SELECT rf.run_id, r.run_timestamp, rf.status, rf.severity, rf.category, rf.resource_id
		FROM run_findings rf
		JOIN runs r ON r.run_id = rf.run_id
		WHERE rf.finding_hash=?
		ORDER BY r.run_timestamp ASC, r.run_id ASC
	`, findingHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []FindingLifecycleEvent{}
	for rows.Next() {
		var (
			e          FindingLifecycleEvent
			resourceID sql.NullString
		)
		if err := rows.Scan(&e.RunID, &e.RunTimestamp, &e.Status, &e.Severity, &e.Category, &resourceID); err != nil {
			return nil, err
		}
		e.ResourceID = resourceID.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *service) ListFindings(runID int64) ([]FindingSnapshot, error) {
	rows, err := s.db.Query(`
		SELECT finding_hash, category, rule_type, severity, resource_id, title, status
		FROM run_findings WHERE run_id=? ORDER BY severity DESC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []FindingSnapshot{}
	for rows.Next() {
		var (
			f          FindingSnapshot
			resourceID sql.NullString
		)
		if err := rows.Scan(&f.FindingHash, &f.Category, &f.RuleType, &f.Severity, &resourceID, &f.Title, &f.Status); err != nil {
			return nil, err
		}
		f.ResourceID = resourceID.String
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_timestamp < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
