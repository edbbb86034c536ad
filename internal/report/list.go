package report

import (
	"io"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// ListCases prints every case of the given suites without running anything.
func ListCases(w io.Writer, suites []*runnertypes.Suite) error {
	ew := &errWriter{w: w}
	ew.write("The following tests would be run:\n")
	for _, s := range suites {
		ew.printf("\nSuite: %s\n", s.Description)
		if len(s.Cases) == 0 {
			ew.write("  (No test cases found)\n")
		}
		for _, c := range s.Cases {
			ew.printf("  - %s\n", c.Description)
		}
	}
	return ew.err
}
