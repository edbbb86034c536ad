package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
	"gopkg.in/yaml.v3"
)

const (
	tapVersion       = "TAP version 14"
	tapSubtestIndent = "    "
)

// TAPReporter writes TAP version 14. A run of exactly one suite is a flat
// test list; otherwise every suite and every unloadable suite file is a test
// point with the cases as a nested subtest.
type TAPReporter struct {
	opts Options
}

// tapDiagnostic is the YAML block following a not ok line.
type tapDiagnostic struct {
	Message  string           `yaml:"message"`
	Severity string           `yaml:"severity"`
	Type     string           `yaml:"type,omitempty"`
	Data     *caseDiagnostics `yaml:"data,omitempty"`
	Problems []string         `yaml:"problems,omitempty"`
}

// Report implements Reporter.
func (r *TAPReporter) Report(w io.Writer, run *runnertypes.RunResult) error {
	ew := &errWriter{w: w}
	ew.write(tapVersion + "\n")

	if len(run.Suites) == 1 && len(run.LoadErrors) == 0 {
		r.writeSuite(ew, run.Suites[0], "")
	} else {
		ew.printf("1..%d\n", len(run.Suites)+len(run.LoadErrors))
		n := 0
		for _, sr := range run.Suites {
			n++
			ew.printf("# Subtest: %s\n", tapEscape(sr.Description()))
			r.writeSuite(ew, sr, tapSubtestIndent)
			ew.printf("%s %d - %s\n", okString(sr.Passed()), n, tapEscape(sr.Description()))
		}
		for _, le := range run.LoadErrors {
			n++
			ew.printf("not ok %d - %s\n", n, tapEscape(le.Path))
			if !r.opts.Quiet {
				problems := make([]string, 0, len(le.Problems))
				for _, p := range le.Problems {
					problems = append(problems, p.Error())
				}
				r.writeDiagnostic(ew, "  ", tapDiagnostic{
					Message:  "Suite could not be loaded",
					Severity: "error",
					Type:     "ConfigurationError",
					Problems: problems,
				})
			}
		}
	}

	if run.Interrupted {
		ew.write("Bail out! " + runnertypes.MessageInterrupted + "\n")
	}
	return ew.err
}

func (r *TAPReporter) writeSuite(ew *errWriter, sr *runnertypes.SuiteResult, prefix string) {
	ew.printf("%s1..%d\n", prefix, len(sr.Cases))
	if sr.SetupFailed && sr.SetupError != nil {
		ew.printf("%s# %s: %s\n", prefix, runnertypes.MessageSuiteSetupFailed, tapComment(sr.SetupError.Error()))
	}
	for i, cr := range sr.Cases {
		ew.printf("%s%s %d - %s\n", prefix, okString(cr.Passed()), i+1, tapEscape(cr.Case.Description))
		if cr.Passed() || r.opts.Quiet {
			continue
		}
		data := newCaseDiagnostics(cr, r.opts.Verbose)
		r.writeDiagnostic(ew, prefix+"  ", tapDiagnostic{
			Message:  cr.Message,
			Severity: severity(cr),
			Type:     errorType(cr),
			Data:     &data,
		})
	}
	if sr.TeardownFailed && sr.TeardownError != nil {
		ew.printf("%s# teardown failed: %s\n", prefix, tapComment(sr.TeardownError.Error()))
	}
}

func (r *TAPReporter) writeDiagnostic(ew *errWriter, prefix string, diag tapDiagnostic) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(diag); err != nil {
		ew.err = fmt.Errorf("failed to encode TAP diagnostics: %w", err)
		return
	}
	if err := enc.Close(); err != nil {
		ew.err = fmt.Errorf("failed to encode TAP diagnostics: %w", err)
		return
	}
	ew.write(prefix + "---\n")
	ew.write(indent(buf.String(), prefix))
	ew.write(prefix + "...\n")
}

func okString(passed bool) string {
	if passed {
		return "ok"
	}
	return "not ok"
}

// tapEscape keeps a description on one line and away from directive syntax.
func tapEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "#", `\#`)
	return tapComment(s)
}

func tapComment(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
