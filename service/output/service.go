// Package output provides a service for rendering results to the console.
package output

import (
	"github.com/thirukguru/iam-entitlements/model"
)

// NewService creates a new output service with the specified format
func NewService(format string) Service {
	f := FormatTable
	if format == "json" {
		f = FormatJSON
	}

	return &service{
		format:   f,
		renderer: &realRenderer{},
	}
}

func (s *service) RenderAnalysis(input model.RenderAnalysisInput) error {
	if s.format == FormatJSON {
		return s.renderer.OutputAnalysisJSON(input)
	}
	s.renderer.DrawAnalysisTables(input)
	return nil
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}
