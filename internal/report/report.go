// Package report renders verification run reports as Markdown.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/snapcheck/snapcheck/internal/store"
)

// Durations shorter than this round away in the summary table.
const fmtRound = time.Millisecond

// Writer outputs a run report in Markdown format.
type Writer struct {
	output io.Writer
}

// NewWriter creates a Writer that outputs to the given writer.
func NewWriter(output io.Writer) *Writer {
	return &Writer{output: output}
}

// Write renders the full report for a run and its captures.
func (w *Writer) Write(run *store.Run, captures []store.Capture) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Verification Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Scenario", "`" + run.Scenario + "`"},
			{"Target URL", run.TargetURL},
			{"Run ID", run.ID},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.FinishedAt.Sub(run.StartedAt).Round(fmtRound).String()},
			{"Status", statusText(run)},
		},
	})
	md.PlainText("")

	w.writeCaptures(md, captures)

	if run.Error != "" {
		md.H2("Failure")
		md.PlainText("")
		md.PlainText("```")
		md.PlainText(run.Error)
		md.PlainText("```")
		md.PlainText("")
	}

	return md.Build()
}

// writeCaptures writes the screenshot artifact section.
func (w *Writer) writeCaptures(md *markdown.Markdown, captures []store.Capture) {
	md.H2("Captures")
	md.PlainText("")

	if len(captures) == 0 {
		md.PlainText("No screenshots were captured.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(captures))
	for _, c := range captures {
		rows = append(rows, []string{
			c.Label,
			"`" + filepath.Base(c.Path) + "`",
			strconv.FormatInt(c.Size, 10),
			c.TakenAt.Format("15:04:05"),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Label", "File", "Bytes", "Taken"},
		Rows:   rows,
	})
	md.PlainText("")

	// Inline the images; paths are relative to the report location.
	for _, c := range captures {
		md.PlainText(fmt.Sprintf("![%s](%s)", c.Label, filepath.Base(c.Path)))
		md.PlainText("")
	}
}

func statusText(run *store.Run) string {
	if run.Status == store.StatusPassed {
		return "✅ Passed"
	}
	return "❌ Failed"
}

// WriteFile renders the report into dir as <scenario>_report.md and returns
// the path written.
func WriteFile(dir string, run *store.Run, captures []store.Capture) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(dir, run.Scenario+"_report.md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := NewWriter(f).Write(run, captures); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	return path, nil
}
