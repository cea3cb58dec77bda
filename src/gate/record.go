// Package gate decides whether a push may land: it narrows the CI backend's
// build history to one commit, picks the newest build of every required
// target/config cell and reports which cells are not green.
//
// Everything here is pure. Fetching records and printing the verdict belong
// to the caller.
package gate

// Result is the outcome class of a build.
type Result int

const (
	// Success is the only passing result. It is the CI backend's code 0.
	Success Result = iota
	// Failure is a build that ran and failed.
	Failure
	// Other covers warnings, skips, exceptions, retries, cancellations and
	// builds that have not finished.
	Other
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "other"
	}
}

// ResultFromCode maps a backend result code to a Result. A nil code means
// the build has not reported a result yet.
func ResultFromCode(code *int) Result {
	if code == nil {
		return Other
	}
	switch *code {
	case 0:
		return Success
	case 2:
		return Failure
	default:
		return Other
	}
}

// BuildRecord is one build as reported by the CI backend.
type BuildRecord struct {
	BuildID     int
	BuildNumber int
	BuilderName string
	Branch      string
	HeadRef     string // empty when the build was not started by a submission
	Target      string
	Config      string
	Result      Result
	Complete    bool
	StateString string
}
