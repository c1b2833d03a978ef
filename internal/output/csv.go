package output

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVPlanWriter writes the old-to-new commit mapping as CSV, one row
// per rewritten commit. Useful for feeding the mapping into other
// tooling after a rewrite.
type CSVPlanWriter struct{}

// Write outputs the plan report as CSV.
func (w *CSVPlanWriter) Write(report *PlanReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"OldID", "NewID", "MessageChanged", "Rule", "NewMessage"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, rw := range limitTop(report.Rewrites, options.Top) {
		rule := ""
		if rw.MatchedRule != nil {
			rule = rw.MatchedRule.Match
		}
		row := []string{
			rw.OldID,
			rw.NewID,
			strconv.FormatBool(rw.MatchedRule != nil),
			rule,
			firstLine(rw.NewMessage),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVVerifyWriter writes the per-rule verification status as CSV, one
// row per configured rule.
type CSVVerifyWriter struct{}

// Write outputs the verification report as CSV.
func (w *CSVVerifyWriter) Write(report *VerifyReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"Rule", "Status", "Commit", "Message"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, r := range report.Result.Rules {
		row := []string{
			r.Rule.Match,
			string(r.Status),
			r.Commit,
			firstLine(r.Message),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
