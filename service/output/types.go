package output

import (
	"github.com/thirukguru/iam-entitlements/model"
	jsonoutput "github.com/thirukguru/iam-entitlements/shared/json_output"
	reporttable "github.com/thirukguru/iam-entitlements/shared/report_table"
	"github.com/thirukguru/iam-entitlements/shared/spinner"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer defines the interface for drawing report output
type Renderer interface {
	DrawAnalysisTables(input model.RenderAnalysisInput)
	OutputAnalysisJSON(input model.RenderAnalysisInput) error
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawAnalysisTables(input model.RenderAnalysisInput) {
	reporttable.DrawAnalysisTables(input)
}

func (r *realRenderer) OutputAnalysisJSON(input model.RenderAnalysisInput) error {
	return jsonoutput.OutputAnalysisJSON(input)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

// service is the internal implementation
type service struct {
	format   Format
	renderer Renderer
}

// Service defines the interface for output operations
type Service interface {
	RenderAnalysis(input model.RenderAnalysisInput) error
	StopSpinner()
}
