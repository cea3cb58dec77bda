package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sofmeright/buildgate/src/gate"
)

// CI environment detection.

func IsCI() bool {
	return os.Getenv("CI") == "true"
}

func IsGitLabCI() bool {
	return os.Getenv("GITLAB_CI") == "true"
}

// GitLab collapsible section helpers.

func SectionStart(w io.Writer, id, name string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_start:%d:%s\r\033[0K%s\n", ts, id, name)
}

func SectionEnd(w io.Writer, id string) {
	if !IsGitLabCI() {
		return
	}
	ts := time.Now().Unix()
	fmt.Fprintf(w, "\033[0Ksection_end:%d:%s\r\033[0K\n", ts, id)
}

// JUnit XML types for CI test reporting.

type JUnitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// GateReport builds the JUnit document for a verdict. Each required target
// becomes a test suite and each of its configs a test case; failed and
// missing cells are failures.
func GateReport(v gate.Verdict, elapsed time.Duration) JUnitTestSuites {
	root := JUnitTestSuites{
		Name: "buildgate",
		Time: fmt.Sprintf("%.3f", elapsed.Seconds()),
	}

	index := make(map[string]int)
	for _, c := range v.Cells {
		i, ok := index[c.Cell.Target]
		if !ok {
			i = len(root.Suites)
			index[c.Cell.Target] = i
			root.Suites = append(root.Suites, JUnitTestSuite{
				Name: "buildgate/" + c.Cell.Target,
				Time: "0.000",
			})
		}
		suite := &root.Suites[i]

		tc := JUnitTestCase{
			Name:      c.Cell.Config,
			Classname: "buildgate." + c.Cell.Target,
			Time:      "0.000",
		}
		switch c.Status {
		case gate.CellFailed:
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("build #%d finished with %s", c.Build.BuildNumber, c.Build.Result),
				Type:    string(c.Status),
				Body:    buildBody(c.Build),
			}
		case gate.CellMissing:
			tc.Failure = &JUnitFailure{
				Message: "no build for this commit",
				Type:    string(c.Status),
			}
		}
		if tc.Failure != nil {
			suite.Failures++
			root.Failures++
		}
		suite.Cases = append(suite.Cases, tc)
		suite.Tests++
		root.Tests++
	}
	return root
}

func buildBody(b *gate.BuildRecord) string {
	lines := []string{
		fmt.Sprintf("builder: %s", b.BuilderName),
		fmt.Sprintf("build:   %d (id %d)", b.BuildNumber, b.BuildID),
	}
	if b.StateString != "" {
		lines = append(lines, "state:   "+b.StateString)
	}
	return strings.Join(lines, "\n")
}

// WriteGateJUnit writes the verdict as dir/gate.xml.
func WriteGateJUnit(dir string, v gate.Verdict, elapsed time.Duration) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	path := filepath.Join(dir, "gate.xml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	f.WriteString(xml.Header)
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(GateReport(v, elapsed)); err != nil {
		return fmt.Errorf("encoding junit xml: %w", err)
	}
	f.WriteString("\n")

	return nil
}

// CIHeader prints a compact pipeline context block at the start of a CI run.
func CIHeader(w io.Writer) {
	if !IsCI() {
		return
	}
	parts := []string{}
	if ref := os.Getenv("CI_COMMIT_REF_NAME"); ref != "" {
		parts = append(parts, fmt.Sprintf("ref=%s", ref))
	}
	if sha := os.Getenv("CI_COMMIT_SHORT_SHA"); sha != "" {
		parts = append(parts, fmt.Sprintf("sha=%s", sha))
	} else if sha := os.Getenv("CI_COMMIT_SHA"); sha != "" && len(sha) >= 8 {
		parts = append(parts, fmt.Sprintf("sha=%s", sha[:8]))
	}
	if pipe := os.Getenv("CI_PIPELINE_ID"); pipe != "" {
		parts = append(parts, fmt.Sprintf("pipeline=%s", pipe))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  ci: %s\n", strings.Join(parts, "  "))
	}
}
