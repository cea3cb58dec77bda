package gate

import "testing"

func TestFilter(t *testing.T) {
	records := []BuildRecord{
		{BuildID: 1, Branch: "main", HeadRef: "abc"},
		{BuildID: 2, Branch: "main", HeadRef: "def"},
		{BuildID: 3, Branch: "release", HeadRef: "abc"},
		{BuildID: 4, Branch: "main", HeadRef: ""},
		{BuildID: 5, Branch: "main", HeadRef: "abc"},
	}

	got := Filter(records, "main", "abc")

	if len(got) != 2 || got[0].BuildID != 1 || got[1].BuildID != 5 {
		t.Fatalf("Filter() = %+v, want builds 1 and 5 in order", got)
	}
	for _, r := range got {
		if r.Branch != "main" || r.HeadRef != "abc" {
			t.Errorf("Filter returned non-matching record %+v", r)
		}
	}
}

func TestFilterNeverKeepsMissingHeadRef(t *testing.T) {
	records := []BuildRecord{{BuildID: 1, Branch: "main"}}
	if got := Filter(records, "main", ""); len(got) != 0 {
		t.Fatalf("record without head ref matched an empty ref: %+v", got)
	}
}

func TestFilterEmpty(t *testing.T) {
	if got := Filter(nil, "main", "abc"); len(got) != 0 {
		t.Fatalf("Filter(nil) = %v", got)
	}
}

func TestLatestNotFound(t *testing.T) {
	records := []BuildRecord{rec("win_x64", "debug", 1, Success)}
	if _, ok := Latest(records, "win_x64", "release"); ok {
		t.Fatal("expected not found for win_x64 / release")
	}
	if _, ok := Latest(nil, "win_x64", "debug"); ok {
		t.Fatal("expected not found on empty input")
	}
}

func TestLatestMonotonic(t *testing.T) {
	records := []BuildRecord{
		rec("win_x64", "debug", 4, Failure),
		rec("win_x64", "debug", 9, Success),
		rec("win_x64", "debug", 2, Failure),
		rec("win_x64", "release", 12, Failure),
	}

	got, ok := Latest(records, "win_x64", "debug")
	if !ok || got.BuildNumber != 9 {
		t.Fatalf("Latest() = %+v (ok=%v), want build 9", got, ok)
	}

	// Older builds arriving later never displace the newest.
	for _, n := range []int{1, 3, 8} {
		records = append(records, rec("win_x64", "debug", n, Failure))
		again, _ := Latest(records, "win_x64", "debug")
		if again.BuildNumber != 9 || again.Result != Success {
			t.Fatalf("adding build %d changed the selection to %+v", n, again)
		}
	}
}

// Duplicate build numbers should not occur, but selection must stay
// deterministic if the backend ever reports them: the last one seen wins.
func TestLatestTieLastSeenWins(t *testing.T) {
	first := rec("win_x64", "debug", 6, Failure)
	first.BuildID = 100
	second := rec("win_x64", "debug", 6, Success)
	second.BuildID = 200

	got, ok := Latest([]BuildRecord{first, second}, "win_x64", "debug")
	if !ok || got.BuildID != 200 {
		t.Fatalf("tie resolved to build id %d, want 200", got.BuildID)
	}

	got, _ = Latest([]BuildRecord{second, first}, "win_x64", "debug")
	if got.BuildID != 100 {
		t.Fatalf("tie resolved to build id %d, want 100", got.BuildID)
	}
}

func TestResultFromCode(t *testing.T) {
	code := func(n int) *int { return &n }
	tests := []struct {
		in   *int
		want Result
	}{
		{nil, Other},
		{code(0), Success},
		{code(1), Other},
		{code(2), Failure},
		{code(4), Other},
		{code(6), Other},
	}
	for _, tt := range tests {
		if got := ResultFromCode(tt.in); got != tt.want {
			t.Errorf("ResultFromCode(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
