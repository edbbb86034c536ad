package config

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/matcher"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/normalize"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// Element and attribute names of the suite document
const (
	elemSuite       = "test-suite"
	elemEnvironment = "environment"
	elemVariables   = "variables"
	elemVariable    = "variable"
	elemWorkingDir  = "working-directory"
	elemSetup       = "setup"
	elemTeardown    = "teardown"
	elemCommand     = "command"
	elemCases       = "test-cases"
	elemCase        = "test-case"
	elemArgs        = "args"
	elemArg         = "arg"
	elemStdin       = "stdin"
	elemExpect      = "expect"
	elemStdout      = "stdout"
	elemStderr      = "stderr"
	elemExitCode    = "exit_code"

	attrDescription = "description"
	attrTimeout     = "timeout"
	attrName        = "name"
	attrMatch       = "match"
	attrNormalize   = "normalize"
)

// DefaultCaseDescription names cases that declare no description.
const DefaultCaseDescription = "Unnamed Test Case"

// suiteDecoder converts a parsed document into the suite model, collecting
// every problem instead of stopping at the first one.
type suiteDecoder struct {
	problems []error
}

func (d *suiteDecoder) addf(scope string, category error, format string, args ...any) {
	d.problems = append(d.problems, fmt.Errorf("%s: %w: %s", scope, category, fmt.Sprintf(format, args...)))
}

func (d *suiteDecoder) add(scope string, err error) {
	d.problems = append(d.problems, fmt.Errorf("%s: %w", scope, err))
}

// childElements returns the element children of n in document order.
func childElements(n *xmlquery.Node) []*xmlquery.Node {
	var children []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

// attr looks up an attribute by local name.
func attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// checkShape reports unknown attributes, unknown child elements and
// repeated single-valued children of n, and returns the known children
// grouped by name.
func (d *suiteDecoder) checkShape(scope string, n *xmlquery.Node, attrs []string, single []string, repeated []string) map[string][]*xmlquery.Node {
	for _, a := range n.Attr {
		if a.Name.Space != "" || !slices.Contains(attrs, a.Name.Local) {
			d.addf(scope, runnertypes.ErrUnknownAttribute, "<%s> has unknown attribute %q", n.Data, qualified(a.Name.Space, a.Name.Local))
		}
	}

	children := make(map[string][]*xmlquery.Node)
	for _, c := range childElements(n) {
		if !slices.Contains(single, c.Data) && !slices.Contains(repeated, c.Data) {
			d.addf(scope, runnertypes.ErrUnknownElement, "<%s> contains unknown element <%s>", n.Data, qualified(c.Prefix, c.Data))
			continue
		}
		children[c.Data] = append(children[c.Data], c)
	}
	for _, name := range single {
		if len(children[name]) > 1 {
			d.addf(scope, runnertypes.ErrDuplicateElement, "<%s> may contain only one <%s>", n.Data, name)
		}
	}
	return children
}

func qualified(space, local string) string {
	if space == "" {
		return local
	}
	return space + ":" + local
}

func first(children map[string][]*xmlquery.Node, name string) *xmlquery.Node {
	if nodes := children[name]; len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func (d *suiteDecoder) decodeSuite(root *xmlquery.Node) *runnertypes.Suite {
	scope := "<" + elemSuite + ">"
	children := d.checkShape(scope, root,
		[]string{attrDescription, attrTimeout},
		[]string{elemEnvironment, elemCases}, nil)

	suite := &runnertypes.Suite{}
	suite.Description, _ = attr(root, attrDescription)
	suite.Timeout = d.decodeTimeout(scope, root)

	if env := first(children, elemEnvironment); env != nil {
		suite.Environment = d.decodeEnvironment(scope, env)
	}

	casesNode := first(children, elemCases)
	if casesNode == nil {
		d.addf(scope, runnertypes.ErrMissingElement, "<%s> is missing required <%s>", elemSuite, elemCases)
		return suite
	}

	caseChildren := d.checkShape("<"+elemCases+">", casesNode, nil, nil, []string{elemCase})
	caseNodes := caseChildren[elemCase]
	if len(caseNodes) == 0 {
		d.addf(scope, runnertypes.ErrMissingElement, "<%s> must contain at least one <%s>", elemCases, elemCase)
	}
	for i, n := range caseNodes {
		suite.Cases = append(suite.Cases, d.decodeCase(i, n))
	}
	return suite
}

func (d *suiteDecoder) decodeTimeout(scope string, n *xmlquery.Node) *time.Duration {
	raw, ok := attr(n, attrTimeout)
	if !ok {
		return nil
	}
	timeout, err := ParseTimeout(raw)
	if err != nil {
		d.add(scope, err)
		return nil
	}
	return &timeout
}

// ParseTimeout parses a timeout attribute given in (possibly fractional)
// seconds. Zero means unlimited.
func ParseTimeout(raw string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %q is not a number of seconds", runnertypes.ErrInvalidTimeout, raw)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("%w: %q must not be negative", runnertypes.ErrInvalidTimeout, raw)
	}
	if seconds > math.MaxInt64/float64(time.Second) {
		return 0, fmt.Errorf("%w: %q is too large", runnertypes.ErrInvalidTimeout, raw)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (d *suiteDecoder) decodeEnvironment(parent string, n *xmlquery.Node) *runnertypes.Environment {
	scope := parent + " <" + elemEnvironment + ">"
	children := d.checkShape(scope, n, nil,
		[]string{elemVariables, elemWorkingDir, elemSetup, elemTeardown}, nil)

	env := &runnertypes.Environment{}

	if vars := first(children, elemVariables); vars != nil {
		env.Variables = d.decodeVariables(scope, vars)
	}

	if wd := first(children, elemWorkingDir); wd != nil {
		d.checkShape(scope, wd, nil, nil, nil)
		env.WorkingDir = strings.TrimSpace(wd.InnerText())
		if env.WorkingDir == "" {
			d.addf(scope, runnertypes.ErrEmptyValue, "<%s> cannot be empty", elemWorkingDir)
		}
	}

	if setup := first(children, elemSetup); setup != nil {
		env.Setup = d.decodeHook(scope, setup)
	}
	if teardown := first(children, elemTeardown); teardown != nil {
		env.Teardown = d.decodeHook(scope, teardown)
	}
	return env
}

func (d *suiteDecoder) decodeVariables(scope string, n *xmlquery.Node) []runnertypes.Variable {
	children := d.checkShape(scope, n, nil, nil, []string{elemVariable})

	var vars []runnertypes.Variable
	seen := make(map[string]struct{})
	for _, v := range children[elemVariable] {
		d.checkShape(scope, v, []string{attrName}, nil, nil)
		name, _ := attr(v, attrName)
		if !isValidVariableName(name) {
			d.addf(scope, runnertypes.ErrEmptyValue, "<%s> has invalid name %q", elemVariable, name)
			continue
		}
		if _, dup := seen[name]; dup {
			d.addf(scope, runnertypes.ErrDuplicateVariable, "variable %q is declared more than once", name)
			continue
		}
		seen[name] = struct{}{}
		vars = append(vars, runnertypes.Variable{Name: name, Value: v.InnerText()})
	}
	return vars
}

func isValidVariableName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "=\x00")
}

func (d *suiteDecoder) decodeHook(scope string, n *xmlquery.Node) []string {
	children := d.checkShape(scope, n, nil, nil, []string{elemCommand})

	var commands []string
	for _, c := range children[elemCommand] {
		d.checkShape(scope, c, nil, nil, nil)
		line := strings.TrimSpace(c.InnerText())
		if _, err := common.SplitCommandLine(line); err != nil {
			d.addf(scope, runnertypes.ErrEmptyValue, "<%s> command %q: %v", n.Data, line, err)
			continue
		}
		commands = append(commands, line)
	}
	return commands
}

func (d *suiteDecoder) decodeCase(index int, n *xmlquery.Node) *runnertypes.Case {
	c := &runnertypes.Case{}
	c.Description, _ = attr(n, attrDescription)
	if c.Description == "" {
		c.Description = DefaultCaseDescription
	}
	scope := fmt.Sprintf("test case %q (#%d)", c.Description, index+1)

	children := d.checkShape(scope, n,
		[]string{attrDescription, attrTimeout},
		[]string{elemEnvironment, elemCommand, elemArgs, elemStdin, elemExpect}, nil)

	c.Timeout = d.decodeTimeout(scope, n)

	if env := first(children, elemEnvironment); env != nil {
		c.Environment = d.decodeEnvironment(scope, env)
	}

	if cmd := first(children, elemCommand); cmd == nil {
		d.addf(scope, runnertypes.ErrMissingElement, "missing required <%s>", elemCommand)
	} else {
		d.checkShape(scope, cmd, nil, nil, nil)
		c.Command = strings.TrimSpace(cmd.InnerText())
		if c.Command == "" {
			d.addf(scope, runnertypes.ErrEmptyValue, "<%s> cannot be empty", elemCommand)
		}
	}

	if args := first(children, elemArgs); args != nil {
		argChildren := d.checkShape(scope, args, nil, nil, []string{elemArg})
		if len(argChildren[elemArg]) == 0 {
			d.addf(scope, runnertypes.ErrMissingElement, "<%s> must contain at least one <%s>", elemArgs, elemArg)
		}
		for _, a := range argChildren[elemArg] {
			d.checkShape(scope, a, nil, nil, nil)
			value := a.InnerText()
			if strings.TrimSpace(value) == "" {
				d.addf(scope, runnertypes.ErrEmptyValue, "<%s> cannot be empty", elemArg)
				continue
			}
			c.Args = append(c.Args, value)
		}
	}

	if stdin := first(children, elemStdin); stdin != nil {
		d.checkShape(scope, stdin, nil, nil, nil)
		payload := stdin.InnerText()
		c.Stdin = &payload
	}

	if expect := first(children, elemExpect); expect == nil {
		d.addf(scope, runnertypes.ErrMissingElement, "missing required <%s>", elemExpect)
	} else {
		c.Expect = d.decodeExpect(scope, expect)
	}
	return c
}

func (d *suiteDecoder) decodeExpect(scope string, n *xmlquery.Node) runnertypes.Expectations {
	children := d.checkShape(scope, n, nil, []string{elemStdout, elemStderr, elemExitCode}, nil)

	var exp runnertypes.Expectations
	if s := first(children, elemStdout); s != nil {
		exp.Stdout = d.decodeStream(scope, s)
	}
	if s := first(children, elemStderr); s != nil {
		exp.Stderr = d.decodeStream(scope, s)
	}
	if e := first(children, elemExitCode); e != nil {
		d.checkShape(scope, e, nil, nil, nil)
		raw := strings.TrimSpace(e.InnerText())
		code, err := strconv.Atoi(raw)
		if err != nil {
			d.addf(scope, runnertypes.ErrInvalidExitCode, "<%s> must contain an integer, got %q", elemExitCode, raw)
		} else {
			exp.ExitCode = &code
		}
	}

	if len(children[elemStdout]) == 0 && len(children[elemStderr]) == 0 && len(children[elemExitCode]) == 0 {
		d.addf(scope, runnertypes.ErrNoExpectations, "<%s> must contain at least one of <%s>, <%s> or <%s>",
			elemExpect, elemStdout, elemStderr, elemExitCode)
	}
	return exp
}

func (d *suiteDecoder) decodeStream(scope string, n *xmlquery.Node) *runnertypes.StreamExpectation {
	streamScope := scope + " <" + n.Data + ">"
	d.checkShape(streamScope, n, []string{attrMatch, attrNormalize}, nil, nil)

	exp := &runnertypes.StreamExpectation{Expected: n.InnerText()}

	rawMode, _ := attr(n, attrMatch)
	mode, err := runnertypes.ParseMatchMode(rawMode)
	if err != nil {
		d.add(streamScope, err)
	}
	exp.Mode = mode

	if rawNormalize, ok := attr(n, attrNormalize); ok {
		keywords, err := normalize.ParseKeywords(rawNormalize)
		if err != nil {
			d.add(streamScope, err)
		}
		exp.Normalize = keywords
	}

	if mode == runnertypes.MatchRegex {
		if _, err := matcher.Compile(exp.Expected); err != nil {
			d.add(streamScope, err)
		}
	}
	return exp
}
