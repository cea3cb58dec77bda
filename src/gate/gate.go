package gate

import "github.com/sofmeright/buildgate/src/matrix"

// maxExitCode keeps large failure counts from wrapping to 0 (accept) when
// used as a process exit status.
const maxExitCode = 255

// CellStatus is the gate outcome for one required cell.
type CellStatus string

const (
	CellPassed  CellStatus = "passed"
	CellFailed  CellStatus = "failed"
	CellMissing CellStatus = "missing" // no build for this commit yet
)

// CellResult is the evaluation of one required cell.
type CellResult struct {
	Cell   matrix.Cell
	Status CellStatus
	Build  *BuildRecord // newest matching build, nil when missing
}

// Verdict is the outcome of one gate evaluation.
type Verdict struct {
	Cells   []CellResult // in matrix order
	Failing []string     // "target / config" labels, in matrix order
}

// Accept reports whether every required cell passed.
func (v Verdict) Accept() bool { return len(v.Failing) == 0 }

// ExitCode is the number of failing cells, capped at 255.
func (v Verdict) ExitCode() int {
	if len(v.Failing) > maxExitCode {
		return maxExitCode
	}
	return len(v.Failing)
}

// Count returns how many cells ended in the given status.
func (v Verdict) Count(status CellStatus) int {
	n := 0
	for _, c := range v.Cells {
		if c.Status == status {
			n++
		}
	}
	return n
}

// Evaluate checks every required cell against the newest matching record.
// records should already be narrowed to one branch and ref with Filter.
func Evaluate(required matrix.Matrix, records []BuildRecord) Verdict {
	var v Verdict
	for _, cell := range required.Cells() {
		res := CellResult{Cell: cell}

		newest, ok := Latest(records, cell.Target, cell.Config)
		switch {
		case !ok:
			res.Status = CellMissing
		case newest.Result != Success:
			res.Status = CellFailed
			res.Build = &newest
		default:
			res.Status = CellPassed
			res.Build = &newest
		}

		v.Cells = append(v.Cells, res)
		if res.Status != CellPassed {
			v.Failing = append(v.Failing, cell.Label())
		}
	}
	return v
}
