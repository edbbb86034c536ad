package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// junitRootName names the testsuites element
const junitRootName = "clitest"

// JUnitReporter writes a JUnit XML document. Expectation mismatches are
// failures; timeouts and every case that could not be evaluated are errors.
type JUnitReporter struct {
	opts Options
}

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Errors   int              `xml:"errors,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       string          `xml:"time,attr"`
	Hostname   string          `xml:"hostname,attr,omitempty"`
	Properties []junitProperty `xml:"properties>property,omitempty"`
	Cases      []junitTestCase `xml:"testcase"`
	SystemErr  string          `xml:"system-err,omitempty"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitTestCase struct {
	ClassName string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitProblem `xml:"failure,omitempty"`
	Error     *junitProblem `xml:"error,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
	SystemErr string        `xml:"system-err,omitempty"`
}

type junitProblem struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// Report implements Reporter.
func (r *JUnitReporter) Report(w io.Writer, run *runnertypes.RunResult) error {
	doc := junitTestSuites{
		Name: junitRootName,
		Time: junitSeconds(run.Duration),
	}
	hostname := common.GetHostname()

	for _, sr := range run.Suites {
		suite := r.suite(sr, hostname)
		doc.Tests += suite.Tests
		doc.Failures += suite.Failures
		doc.Errors += suite.Errors
		doc.Suites = append(doc.Suites, suite)
	}
	for _, le := range run.LoadErrors {
		doc.Tests++
		doc.Errors++
		doc.Suites = append(doc.Suites, junitTestSuite{
			Name:       le.Path,
			Tests:      1,
			Errors:     1,
			Time:       junitSeconds(0),
			Hostname:   hostname,
			Properties: []junitProperty{{Name: "path", Value: le.Path}},
			Cases: []junitTestCase{{
				ClassName: le.Path,
				Name:      "load",
				Time:      junitSeconds(0),
				Error: &junitProblem{
					Message: "Suite could not be loaded",
					Type:    "ConfigurationError",
					Text:    le.Error(),
				},
			}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JUnit report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode JUnit report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (r *JUnitReporter) suite(sr *runnertypes.SuiteResult, hostname string) junitTestSuite {
	suite := junitTestSuite{
		Name:     sr.Description(),
		Tests:    len(sr.Cases),
		Time:     junitSeconds(sr.Duration),
		Hostname: hostname,
	}
	if sr.Suite != nil {
		suite.Properties = append(suite.Properties, junitProperty{Name: "path", Value: sr.Suite.Path})
	}

	var suiteErr []string
	if sr.SetupFailed && sr.SetupError != nil {
		suiteErr = append(suiteErr, runnertypes.MessageSuiteSetupFailed+": "+sr.SetupError.Error())
	}
	if sr.TeardownFailed && sr.TeardownError != nil {
		suiteErr = append(suiteErr, "teardown failed: "+sr.TeardownError.Error())
	}
	suite.SystemErr = strings.Join(suiteErr, "\n")

	for _, cr := range sr.Cases {
		tc := junitTestCase{
			ClassName: sr.Description(),
			Name:      cr.Case.Description,
			Time:      junitSeconds(cr.Duration),
		}
		if !cr.Passed() {
			problem := &junitProblem{
				Message: cr.Message,
				Type:    errorType(cr),
				Text:    problemText(cr),
			}
			if cr.Outcome == runnertypes.OutcomeFail && !cr.TimedOut {
				tc.Failure = problem
				suite.Failures++
			} else {
				tc.Error = problem
				suite.Errors++
			}
			if r.opts.Verbose {
				tc.SystemOut = cr.Stdout
				tc.SystemErr = cr.Stderr
			}
		}
		suite.Cases = append(suite.Cases, tc)
	}
	return suite
}

// problemText renders the diagnostics of a case as "key: value" lines.
func problemText(cr *runnertypes.CaseResult) string {
	d := newCaseDiagnostics(cr, false)
	var b strings.Builder
	for _, m := range d.Mismatches {
		label := m.Field
		if m.Mode != "" {
			label += " (" + m.Mode + ")"
		}
		fmt.Fprintf(&b, "%s expected: %q\n", label, m.Expected)
		fmt.Fprintf(&b, "%s actual: %q\n", label, m.Actual)
		if m.Diff != "" {
			fmt.Fprintf(&b, "%s diff: %s\n", label, m.Diff)
		}
	}
	if d.Timeout != "" {
		fmt.Fprintf(&b, "timeout: %s\n", d.Timeout)
	}
	if d.ExitCode != nil {
		fmt.Fprintf(&b, "exit_code: %d\n", *d.ExitCode)
	}
	if d.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", d.Error)
	}
	if d.Teardown != "" {
		fmt.Fprintf(&b, "teardown_error: %s\n", d.Teardown)
	}
	return strings.TrimRight(b.String(), "\n")
}

func junitSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
