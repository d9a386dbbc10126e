package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/aggregate"
	"github.com/thirukguru/iam-entitlements/service/findings"
	"github.com/thirukguru/iam-entitlements/service/output"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
	"github.com/thirukguru/iam-entitlements/service/storage"
	"github.com/thirukguru/iam-entitlements/service/validator"
	jsonoutput "github.com/thirukguru/iam-entitlements/shared/json_output"
	"github.com/thirukguru/iam-entitlements/shared/spinner"
)

func runAnalysis(flags model.Flags, versionInfo model.VersionInfo, rs *ruleset.Ruleset, storageService storage.Service) error {
	if flags.Policies == "" && flags.Findings == "" && !flags.Demo {
		return fmt.Errorf("nothing to analyze: provide --policies, --findings or --demo")
	}

	started := time.Now()

	policyInputs, err := loadPolicyInputs(flags.Policies)
	if err != nil {
		return err
	}
	rawFindings, err := loadRawFindings(flags)
	if err != nil {
		return err
	}

	if flags.Output != "json" {
		spinner.StartSpinner()
	}

	outputService := output.NewService(flags.Output)
	validatorService := validator.NewService(rs)
	findingsService := findings.NewService(rs)

	results, parseFailures, err := validatePolicies(validatorService, flags, policyInputs)
	if err != nil {
		outputService.StopSpinner()
		return err
	}

	normalized, warnings := findingsService.NormalizeBatch(flags.Provider, rawFindings)

	input := model.RenderAnalysisInput{
		Target:     flags.Target,
		Results:    results,
		Findings:   normalized,
		Warnings:   warnings,
		Summary:    aggregate.Summarize(normalized, flags.TopFactors),
		Validation: aggregate.SummarizeValidation(results),
	}

	outputService.StopSpinner()

	for _, failure := range parseFailures {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", failure)
	}

	if err := outputService.RenderAnalysis(input); err != nil {
		return err
	}
	if flags.OutputFile != "" {
		if err := writeReportFile(flags.OutputFile, input); err != nil {
			return err
		}
	}

	if flags.Store && storageService != nil {
		if err := storeRun(storageService, flags, versionInfo, input, len(policyInputs), time.Since(started)); err != nil {
			return fmt.Errorf("failed to store analysis run: %w", err)
		}
	}

	return nil
}

// validatePolicies runs either per-policy batch validation or, with
// --identity, the combined identity analysis over all policies.
func validatePolicies(svc validator.Service, flags model.Flags, inputs []validator.PolicyInput) ([]model.ValidationResult, []error, error) {
	if len(inputs) == 0 {
		return nil, nil, nil
	}

	if flags.Identity != "" {
		result, err := svc.ValidateIdentity(flags.Identity, inputs)
		if err != nil {
			return nil, nil, err
		}
		return []model.ValidationResult{result}, nil, nil
	}

	items, err := svc.ValidateBatch(context.Background(), inputs)
	if err != nil {
		return nil, nil, err
	}

	var (
		results  []model.ValidationResult
		failures []error
	)
	for _, item := range items {
		if item.Err != nil {
			failures = append(failures, item.Err)
			continue
		}
		results = append(results, item.Result)
	}
	return results, failures, nil
}

// loadPolicyInputs reads a single policy file or every .json file in a
// directory, named by base filename.
func loadPolicyInputs(path string) ([]validator.PolicyInput, error) {
	if path == "" {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policies path: %w", err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to list policies directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
		sort.Strings(files)
		if len(files) == 0 {
			return nil, fmt.Errorf("no .json policy files found in %s", path)
		}
	} else {
		files = []string{path}
	}

	inputs := make([]validator.PolicyInput, 0, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file %s: %w", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), ".json")
		inputs = append(inputs, validator.PolicyInput{Name: name, Raw: raw})
	}
	return inputs, nil
}

func loadRawFindings(flags model.Flags) ([]map[string]any, error) {
	if flags.Demo {
		return findings.DemoFindings(), nil
	}
	if flags.Findings == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(flags.Findings)
	if err != nil {
		return nil, fmt.Errorf("failed to read findings file: %w", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse findings file (expected a JSON array): %w", err)
	}
	return records, nil
}

func writeReportFile(path string, input model.RenderAnalysisInput) error {
	report := jsonoutput.BuildAnalysisReport(input, time.Now().UTC().Format(time.RFC3339))
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func storeRun(store storage.Service, flags model.Flags, versionInfo model.VersionInfo, input model.RenderAnalysisInput, policyCount int, duration time.Duration) error {
	target := flags.Target
	if target == "" {
		target = "local"
	}

	flagsJSON, _ := json.Marshal(flags)

	saved := storage.SaveRunInput{
		Target:            target,
		Provider:          flags.Provider,
		PolicyCount:       policyCount,
		DurationSec:       int64(duration.Seconds()),
		Version:           versionInfo.Version,
		FlagsJSON:         string(flagsJSON),
		CriticalCount:     input.Validation.Critical + input.Summary.Critical,
		HighCount:         input.Validation.High + input.Summary.High,
		MediumCount:       input.Validation.Medium + input.Summary.Medium,
		LowCount:          input.Validation.Low + input.Summary.Low,
		InfoCount:         input.Validation.Info + input.Summary.Info,
		AvgRiskScore:      input.Validation.AvgRiskScore,
		AvgLeastPrivilege: input.Validation.AvgLeastPrivilege,
	}

	for _, result := range input.Results {
		for _, issue := range result.Issues {
			saved.Findings = append(saved.Findings, storage.Finding{
				Hash:           findingHash(target, result.PolicyName, issue.RuleID, issue.StatementIndex),
				Category:       storage.CategoryPolicy,
				RuleType:       issue.RuleID,
				Severity:       string(issue.Severity),
				ResourceID:     result.PolicyName,
				Title:          issue.Title,
				Description:    issue.Description,
				Recommendation: issue.Recommendation,
				ComplianceTags: strings.Join(issue.ComplianceTags, ","),
			})
		}
	}
	for _, f := range input.Findings {
		saved.Findings = append(saved.Findings, storage.Finding{
			Hash:           findingHash(target, f.ID, string(f.ExposureType), 0),
			Category:       storage.CategoryFinding,
			RuleType:       string(f.ExposureType),
			Severity:       string(f.Severity),
			ResourceType:   f.ResourceType,
			ResourceID:     f.ResourceName,
			ResourceARN:    f.ResourceARN,
			Title:          f.Title,
			Description:    f.Description,
			Recommendation: f.Recommendation,
			ComplianceTags: strings.Join(f.RiskFactors, ","),
		})
	}

	_, err := store.SaveRun(context.Background(), saved)
	return err
}

func findingHash(parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v|", p)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
