package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

const (
	specPassMark   = "✓"
	specDetailsPad = "     "
)

// SpecReporter writes a human oriented report: a checklist per suite, a
// summary table and the details of every case that did not pass.
type SpecReporter struct {
	opts Options
}

// specFailure remembers a numbered failure for the details section.
type specFailure struct {
	suite string
	cr    *runnertypes.CaseResult
}

// Report implements Reporter.
func (r *SpecReporter) Report(w io.Writer, run *runnertypes.RunResult) error {
	ew := &errWriter{w: w}
	p := r.opts.Palette

	var failures []specFailure
	total, passing := 0, 0
	for _, sr := range run.Suites {
		ew.printf("\n%s\n", p.Heading(sr.Description()))
		if sr.SetupFailed && sr.SetupError != nil {
			ew.printf("  %s\n", p.Error(fmt.Sprintf("%s: %s", runnertypes.MessageSuiteSetupFailed, common.EscapeControlChars(sr.SetupError.Error()))))
		}
		for _, cr := range sr.Cases {
			total++
			if cr.Passed() {
				passing++
				ew.printf("  %s %s\n", p.Pass(specPassMark), p.Dim(cr.Case.Description))
				continue
			}
			failures = append(failures, specFailure{suite: sr.Description(), cr: cr})
			ew.printf("  %s\n", p.Outcome(cr.Outcome)(fmt.Sprintf("%d) %s", len(failures), cr.Case.Description)))
		}
		if sr.TeardownFailed && sr.TeardownError != nil {
			ew.printf("  %s\n", p.Warn("teardown failed: "+common.EscapeControlChars(sr.TeardownError.Error())))
		}
	}

	for _, le := range run.LoadErrors {
		ew.printf("\n%s %s\n", p.Error("ERROR"), le.Path)
		for _, problem := range le.Problems {
			ew.printf("  - %s\n", problem)
		}
	}

	ew.write("\n")
	if len(run.Suites)+len(run.LoadErrors) > 1 {
		ew.write(summaryTable(run))
		ew.write("\n")
	}
	summary := fmt.Sprintf("%d tests run, %d passing, %d failing", total, passing, total-passing)
	if passing == total && len(run.LoadErrors) == 0 {
		ew.printf("%s\n", p.Pass(summary))
	} else {
		ew.printf("%s\n", p.Fail(summary))
	}
	if run.Interrupted {
		ew.printf("%s\n", p.Warn(runnertypes.MessageInterrupted))
	}

	if len(failures) > 0 && !r.opts.Quiet {
		ew.printf("\n%s\n", p.Heading("Failure Details:"))
		for i, f := range failures {
			r.writeFailure(ew, i+1, f)
		}
	}
	return ew.err
}

func (r *SpecReporter) writeFailure(ew *errWriter, n int, f specFailure) {
	p := r.opts.Palette
	cr := f.cr
	ew.printf("\n  %d) %s %s\n", n, f.suite, cr.Case.Description)
	ew.printf("%sMessage: %s\n", specDetailsPad, p.Outcome(cr.Outcome)(cr.Message))

	d := newCaseDiagnostics(cr, r.opts.Verbose)
	for _, m := range d.Mismatches {
		label := m.Field
		if m.Mode != "" {
			label += " (" + m.Mode + ")"
		}
		ew.printf("%s%s\n", specDetailsPad, p.Heading(label))
		ew.printf("%s  expected: %q\n", specDetailsPad, m.Expected)
		ew.printf("%s  actual:   %q\n", specDetailsPad, m.Actual)
		if m.Diff != "" {
			ew.printf("%s  diff:     %s\n", specDetailsPad, m.Diff)
		}
	}
	if d.Timeout != "" {
		ew.printf("%sTimeout: %s\n", specDetailsPad, d.Timeout)
	}
	if d.Error != "" {
		ew.write(indent("Error: "+d.Error, specDetailsPad))
	}
	if d.Teardown != "" {
		ew.printf("%s%s\n", specDetailsPad, p.Warn("Teardown: "+common.EscapeControlChars(d.Teardown)))
	}
	if r.opts.Verbose {
		if d.ExitCode != nil {
			ew.printf("%sExit code: %d\n", specDetailsPad, *d.ExitCode)
		}
		writeCaptured(ew, "Stdout", d.Stdout)
		writeCaptured(ew, "Stderr", d.Stderr)
	}
}

func writeCaptured(ew *errWriter, label, output string) {
	if output == "" {
		ew.printf("%s%s: (empty)\n", specDetailsPad, label)
		return
	}
	ew.printf("%s%s:\n", specDetailsPad, label)
	ew.write(indent(output, specDetailsPad+"  "))
}

// summaryTable renders one row per suite plus a totals footer.
func summaryTable(run *runnertypes.RunResult) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Suite", "Result", "Total", "Passed", "Failed", "Errors", "Time"})

	var sum runnertypes.CaseCounts
	for _, sr := range run.Suites {
		c := sr.Counts()
		sum.Total += c.Total
		sum.Passed += c.Passed
		sum.Failed += c.Failed
		sum.Errors += c.Errors
		t.AppendRow(table.Row{sr.Description(), string(sr.Outcome()), c.Total, c.Passed, c.Failed, c.Errors, formatSeconds(sr.Duration)})
	}
	for _, le := range run.LoadErrors {
		t.AppendRow(table.Row{le.Path, "not loaded", 0, 0, 0, 0, "-"})
	}
	t.AppendFooter(table.Row{"Total", "", sum.Total, sum.Passed, sum.Failed, sum.Errors, formatSeconds(run.Duration)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 7, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return t.Render() + "\n"
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
