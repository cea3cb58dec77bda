package matrix

import (
	"reflect"
	"testing"
)

func TestCellsOrder(t *testing.T) {
	m := Matrix{
		{Target: "win_x64", Configs: []string{"release", "debug"}},
		{Target: "linux_x64_gcc", Configs: []string{"profile"}},
	}

	got := m.Cells()
	want := []Cell{
		{"win_x64", "release"},
		{"win_x64", "debug"},
		{"linux_x64_gcc", "profile"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Cells() = %v, want %v", got, want)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if !m.Contains(Cell{"linux_x64_gcc", "profile"}) {
		t.Error("expected linux_x64_gcc / profile to be required")
	}
	if m.Contains(Cell{"linux_x64_gcc", "debug"}) {
		t.Error("linux_x64_gcc / debug should not be required")
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		want    Cell
		wantErr bool
	}{
		{in: "win_x64/debug", want: Cell{"win_x64", "debug"}},
		{in: "win_x64 / debug", want: Cell{"win_x64", "debug"}},
		{in: "win_x64", wantErr: true},
		{in: "/debug", wantErr: true},
		{in: "win_x64/", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCell(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCell(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCell(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCell(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := (Cell{"win_x64", "debug"}).Label(); got != "win_x64 / debug" {
		t.Errorf("Label() = %q", got)
	}
}
