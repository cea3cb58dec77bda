package submit

import (
	"fmt"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// Guard refuses requests whose properties contain credentials. Properties
// are passed on the command line and echoed into CI logs.
type Guard struct {
	detector *detect.Detector
}

// NewGuard creates a guard with the default gitleaks rules.
func NewGuard() (*Guard, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("submit: loading secret rules: %w", err)
	}
	return &Guard{detector: d}, nil
}

// Check scans the request's properties. It is not safe for concurrent use.
func (g *Guard) Check(r Request) error {
	hits := g.detector.DetectBytes([]byte(strings.Join(r.Properties(), "\n")))
	if len(hits) == 0 {
		return nil
	}
	rules := make([]string, 0, len(hits))
	for _, h := range hits {
		rules = append(rules, h.RuleID)
	}
	return fmt.Errorf("submit: %s: properties contain a secret (%s)", r.Cell.Label(), strings.Join(rules, ", "))
}
