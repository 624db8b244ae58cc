package history

import "time"

const SchemaVersion = 1

// Run is one persisted conversion run.
type Run struct {
	ID               string        `json:"id"`
	ProjectKey       string        `json:"project_key"`
	SchemaVersion    int           `json:"schema_version"`
	Timestamp        time.Time     `json:"timestamp"`
	Action           string        `json:"action"`
	Source           string        `json:"source"`
	AllFiles         int           `json:"all_files"`
	ConvertibleFiles int           `json:"convertible_files"`
	ConvertedFiles   int           `json:"converted_files"`
	CopiedFiles      int           `json:"copied_files"`
	WarningCount     int           `json:"warning_count"`
	WriteErrorCount  int           `json:"write_error_count"`
	Duration         time.Duration `json:"duration"`
}

type TrendPoint struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	AllFiles        int       `json:"all_files"`
	ConvertedFiles  int       `json:"converted_files"`
	CopiedFiles     int       `json:"copied_files"`
	WarningCount    int       `json:"warning_count"`
	WriteErrorCount int       `json:"write_error_count"`
	DeltaFiles      int       `json:"delta_files"`
	DeltaConverted  int       `json:"delta_converted"`
	DeltaWarnings   int       `json:"delta_warnings"`
	AvgWarnings     float64   `json:"avg_warnings"`
	WindowHours     float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	ProjectKey    string       `json:"project_key"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}
