package history

import (
	"fmt"
	"math"
	"strings"
	"time"
)

func BuildTrendReport(projectKey string, runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs available")
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			RunID:           current.ID,
			Timestamp:       current.Timestamp,
			AllFiles:        current.AllFiles,
			ConvertedFiles:  current.ConvertedFiles,
			CopiedFiles:     current.CopiedFiles,
			WarningCount:    current.WarningCount,
			WriteErrorCount: current.WriteErrorCount,
		}

		if i > 0 {
			prev := runs[i-1]
			point.DeltaFiles = current.AllFiles - prev.AllFiles
			point.DeltaConverted = current.ConvertedFiles - prev.ConvertedFiles
			point.DeltaWarnings = current.WarningCount - prev.WarningCount
		}

		point.AvgWarnings = round2(movingWarningAverage(runs, i, window))
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		ProjectKey:    projectKey,
		Since:         runs[0].Timestamp,
		Until:         runs[len(runs)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

// FormatTrendReport renders the report for terminal output.
func FormatTrendReport(report TrendReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversion trend for %q: %d runs, %s .. %s\n",
		report.ProjectKey, report.RunCount,
		report.Since.Format(time.RFC3339), report.Until.Format(time.RFC3339))
	for _, p := range report.Points {
		fmt.Fprintf(&b, "  %s  files=%d converted=%d copied=%d warnings=%d errors=%d",
			p.Timestamp.Format("2006-01-02 15:04:05"),
			p.AllFiles, p.ConvertedFiles, p.CopiedFiles, p.WarningCount, p.WriteErrorCount)
		if p.DeltaFiles != 0 || p.DeltaWarnings != 0 {
			fmt.Fprintf(&b, "  (files %+d, warnings %+d)", p.DeltaFiles, p.DeltaWarnings)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func movingWarningAverage(runs []Run, index int, window time.Duration) float64 {
	if window <= 0 {
		return float64(runs[index].WarningCount)
	}

	cutoff := runs[index].Timestamp.Add(-window)
	total := 0
	count := 0
	for i := index; i >= 0; i-- {
		if runs[i].Timestamp.Before(cutoff) {
			break
		}
		total += runs[i].WarningCount
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
