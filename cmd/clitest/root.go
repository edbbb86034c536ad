package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/isseis/go-safe-cmd-tester/internal/cmdcommon"
	"github.com/isseis/go-safe-cmd-tester/internal/report"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// Flag names
const (
	flagVerbose   = "verbose"
	flagQuiet     = "quiet"
	flagListCases = "list-cases"
	flagReporter  = "reporter"
	flagTimeout   = "timeout"
	flagEnvFile   = "env-file"
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogDir    = "log-dir"
	flagColor     = "color"
	flagNoColor   = "no-color"
)

// flags holds the raw command-line values. Whether a flag was given at all
// is asked of cobra, so settings only fill in what the user left out.
type flags struct {
	verbose   bool
	quiet     bool
	listCases bool
	reporter  string
	timeout   time.Duration
	envFile   string
	config    string
	logLevel  string
	logDir    string
	color     bool
	noColor   bool
}

func newRootCommand(app *app) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "clitest [flags] SUITE...",
		Short: "Run declarative XML test suites against command-line programs",
		Long: `clitest runs the test cases described by XML suite documents. Every case
launches one command, captures its output and exit code and compares them
with the declared expectations.

Exit status: 0 when every suite passed, 1 when a case failed or the run was
interrupted, 2 for usage errors and suites that could not be loaded.`,
		Version:       cmdcommon.Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, f, app)
			if err != nil {
				return err
			}
			app.started = true
			return app.run(cmd.Context(), opts, args)
		},
	}

	fs := cmd.Flags()
	fs.BoolVarP(&f.verbose, flagVerbose, "v", false, "log each case as it starts and include captured output of failing cases in the report")
	fs.BoolVarP(&f.quiet, flagQuiet, "q", false, "report outcomes only, without failure details")
	fs.BoolVar(&f.listCases, flagListCases, false, "list the cases that would be run without executing them")
	fs.StringVar(&f.reporter, flagReporter, "", fmt.Sprintf("report format: %s (default %q)", strings.Join(report.Names(), ", "), report.NameSpec))
	fs.DurationVar(&f.timeout, flagTimeout, 0, "default case timeout, used when a suite or case sets none (0 means unlimited)")
	fs.StringVar(&f.envFile, flagEnvFile, "", "dotenv file with variables added to every command's environment")
	fs.StringVar(&f.config, flagConfig, "", "settings file (default ./clitest.toml when present)")
	fs.StringVar(&f.logLevel, flagLogLevel, "", fmt.Sprintf("log level: debug, info, warn, error (default %q)", runnertypes.DefaultLogLevel))
	fs.StringVar(&f.logDir, flagLogDir, "", "directory to place a per-run JSON log")
	fs.BoolVar(&f.color, flagColor, false, "force coloured output")
	fs.BoolVar(&f.noColor, flagNoColor, false, "disable coloured output")

	cmd.MarkFlagsMutuallyExclusive(flagVerbose, flagQuiet, flagListCases)
	cmd.MarkFlagsMutuallyExclusive(flagColor, flagNoColor)
	return cmd
}
