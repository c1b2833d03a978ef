package output

import (
	"time"

	"github.com/masmgr/msgfix-go/internal/git"
	"github.com/masmgr/msgfix-go/internal/rewrite"
	"github.com/masmgr/msgfix-go/internal/verify"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement their respective interfaces.
var (
	// PlanReportWriter implementations
	_ PlanReportWriter = (*ConsolePlanWriter)(nil)
	_ PlanReportWriter = (*JSONPlanWriter)(nil)
	_ PlanReportWriter = (*CSVPlanWriter)(nil)
	_ PlanReportWriter = (*MarkdownPlanWriter)(nil)

	// VerifyReportWriter implementations
	_ VerifyReportWriter = (*ConsoleVerifyWriter)(nil)
	_ VerifyReportWriter = (*JSONVerifyWriter)(nil)
	_ VerifyReportWriter = (*CSVVerifyWriter)(nil)
	_ VerifyReportWriter = (*MarkdownVerifyWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
}

// PlanReport holds a computed rewrite plan for rendering. Applied is
// false for dry runs; Updates is only populated after an apply.
type PlanReport struct {
	RepoPath     string
	GeneratedAt  time.Time
	Applied      bool
	TotalCommits int
	Rewrites     []rewrite.Rewrite
	Unmatched    []rewrite.Rule
	Updates      []git.RefUpdate
}

// VerifyReport holds the results of post-rewrite verification.
type VerifyReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Result      *verify.Report
}

// PlanReportWriter writes rewrite plan reports.
type PlanReportWriter interface {
	Write(report *PlanReport, options OutputOptions) error
}

// VerifyReportWriter writes verification reports.
type VerifyReportWriter interface {
	Write(report *VerifyReport, options OutputOptions) error
}

// NewPlanReportWriter creates a plan report writer for the specified format.
func NewPlanReportWriter(format OutputFormat) PlanReportWriter {
	switch format {
	case FormatJSON:
		return &JSONPlanWriter{}
	case FormatCSV:
		return &CSVPlanWriter{}
	case FormatMarkdown:
		return &MarkdownPlanWriter{}
	default:
		return &ConsolePlanWriter{}
	}
}

// NewVerifyReportWriter creates a verify report writer for the specified format.
func NewVerifyReportWriter(format OutputFormat) VerifyReportWriter {
	switch format {
	case FormatJSON:
		return &JSONVerifyWriter{}
	case FormatCSV:
		return &CSVVerifyWriter{}
	case FormatMarkdown:
		return &MarkdownVerifyWriter{}
	default:
		return &ConsoleVerifyWriter{}
	}
}
