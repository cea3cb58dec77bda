package gate

import (
	"reflect"
	"testing"

	"github.com/sofmeright/buildgate/src/matrix"
)

func rec(target, config string, number int, result Result) BuildRecord {
	return BuildRecord{
		Branch:      "main",
		HeadRef:     "abc123",
		Target:      target,
		Config:      config,
		BuildNumber: number,
		Result:      result,
		Complete:    true,
	}
}

var winMatrix = matrix.Matrix{{Target: "win_x64", Configs: []string{"debug", "release"}}}

func TestEvaluateNewestFailureAndMissing(t *testing.T) {
	records := []BuildRecord{
		rec("win_x64", "debug", 5, Success),
		rec("win_x64", "debug", 7, Failure),
	}

	v := Evaluate(winMatrix, records)

	want := []string{"win_x64 / debug", "win_x64 / release"}
	if !reflect.DeepEqual(v.Failing, want) {
		t.Fatalf("Failing = %v, want %v", v.Failing, want)
	}
	if v.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", v.ExitCode())
	}
	if v.Accept() {
		t.Error("Accept() = true, want false")
	}
	if v.Cells[0].Status != CellFailed || v.Cells[0].Build.BuildNumber != 7 {
		t.Errorf("debug cell = %+v, want failed build 7", v.Cells[0])
	}
	if v.Cells[1].Status != CellMissing || v.Cells[1].Build != nil {
		t.Errorf("release cell = %+v, want missing", v.Cells[1])
	}
}

func TestEvaluateNewerSuccessAccepts(t *testing.T) {
	records := []BuildRecord{
		rec("win_x64", "debug", 5, Success),
		rec("win_x64", "debug", 7, Failure),
		rec("win_x64", "debug", 8, Success),
		rec("win_x64", "release", 1, Success),
	}

	v := Evaluate(winMatrix, records)

	if len(v.Failing) != 0 {
		t.Fatalf("Failing = %v, want none", v.Failing)
	}
	if v.ExitCode() != 0 || !v.Accept() {
		t.Errorf("ExitCode() = %d Accept() = %v, want 0/true", v.ExitCode(), v.Accept())
	}
	if v.Count(CellPassed) != 2 {
		t.Errorf("Count(passed) = %d, want 2", v.Count(CellPassed))
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	records := []BuildRecord{
		rec("win_x64", "debug", 3, Other),
		rec("win_x64", "release", 4, Success),
	}
	first := Evaluate(winMatrix, records)
	second := Evaluate(winMatrix, records)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("verdicts differ:\n%+v\n%+v", first, second)
	}
}

func TestEvaluateCompleteness(t *testing.T) {
	m := matrix.Matrix{
		{Target: "win_x64", Configs: []string{"debug", "profile", "release"}},
		{Target: "linux_x64_gcc", Configs: []string{"debug", "release"}},
	}
	records := []BuildRecord{
		rec("win_x64", "debug", 1, Success),
		rec("win_x64", "profile", 2, Failure),
		rec("linux_x64_gcc", "release", 3, Success),
		rec("linux_x64_clang", "release", 4, Failure), // not required
	}

	v := Evaluate(m, records)

	if len(v.Cells) != m.Len() {
		t.Fatalf("evaluated %d cells, want %d", len(v.Cells), m.Len())
	}
	for i, cell := range m.Cells() {
		got := v.Cells[i]
		if got.Cell != cell {
			t.Errorf("cell %d = %v, want %v", i, got.Cell, cell)
		}
		newest, ok := Latest(records, cell.Target, cell.Config)
		shouldFail := !ok || newest.Result != Success
		if (got.Status != CellPassed) != shouldFail {
			t.Errorf("%s: status %s, shouldFail=%v", cell.Label(), got.Status, shouldFail)
		}
	}
	want := []string{"win_x64 / profile", "win_x64 / release", "linux_x64_gcc / debug"}
	if !reflect.DeepEqual(v.Failing, want) {
		t.Errorf("Failing = %v, want %v", v.Failing, want)
	}
}

func TestEvaluateNonSuccessResultsFail(t *testing.T) {
	m := matrix.Matrix{{Target: "win_x64", Configs: []string{"debug"}}}
	for _, r := range []Result{Failure, Other} {
		v := Evaluate(m, []BuildRecord{rec("win_x64", "debug", 1, r)})
		if v.Accept() {
			t.Errorf("result %s accepted", r)
		}
	}
}

func TestExitCodeCapped(t *testing.T) {
	configs := make([]string, 300)
	for i := range configs {
		configs[i] = string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	v := Evaluate(matrix.Matrix{{Target: "win_x64", Configs: configs}}, nil)
	if len(v.Failing) != 300 {
		t.Fatalf("Failing has %d entries, want 300", len(v.Failing))
	}
	if v.ExitCode() != 255 {
		t.Errorf("ExitCode() = %d, want 255", v.ExitCode())
	}
}

func TestEmptyMatrixAccepts(t *testing.T) {
	v := Evaluate(nil, nil)
	if !v.Accept() || v.ExitCode() != 0 {
		t.Errorf("empty matrix: Accept()=%v ExitCode()=%d", v.Accept(), v.ExitCode())
	}
}
