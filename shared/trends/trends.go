package trends

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/thirukguru/iam-entitlements/service/storage"
)

// RenderTrendTable prints an ASCII table of trend data.
func RenderTrendTable(points []storage.TrendPoint) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Target", "Date", "Total", "Critical", "High", "Medium", "Low", "Score"})
	for _, p := range points {
		t.AppendRow(table.Row{p.Target, p.Date, p.Total, p.Critical, p.High, p.Medium, p.Low, p.Score})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderComparisonTable prints comparison summary for two runs.
func RenderComparisonTable(cmp *storage.RunComparison) {
	if cmp == nil {
		fmt.Println("No comparison data available")
		return
	}
	fmt.Printf("\nRun Comparison (%d -> %d)\n", cmp.RunID1, cmp.RunID2)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"New", "Resolved", "Persistent"})
	t.AppendRow(table.Row{cmp.NewFindings, cmp.Resolved, cmp.Persistent})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
