package submit

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sofmeright/buildgate/src/matrix"
)

var identity = Identity{
	Branch:     "release",
	Repository: "github.com:CRYTEK-CRYENGINE/CRYENGINE.git",
	HeadRef:    "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c",
	SDKRepoURL: "git@gitlab.com:patsytau/ce_sdks.git",
}

func TestBuilderName(t *testing.T) {
	tests := map[string]string{
		"win_x86":         BuilderWindows,
		"win_x64":         BuilderWindows,
		"linux_x64_gcc":   BuilderLinux,
		"linux_x64_clang": BuilderLinux,
		"ps4":             Unsupported,
		"":                Unsupported,
	}
	for target, want := range tests {
		if got := BuilderName(target); got != want {
			t.Errorf("BuilderName(%q) = %q, want %q", target, got, want)
		}
	}
}

func TestGridTicksRequired(t *testing.T) {
	required := matrix.Matrix{{Target: "win_x64", Configs: []string{"release"}}}
	sel := Grid([]string{"win_x64", "linux_x64_gcc"}, []string{"debug", "release"}, required)

	if len(sel) != 4 {
		t.Fatalf("grid has %d cells, want 4", len(sel))
	}
	want := []matrix.Cell{{Target: "win_x64", Config: "release"}}
	if got := sel.Picked(); !reflect.DeepEqual(got, want) {
		t.Errorf("Picked() = %v, want %v", got, want)
	}
}

func TestGridAddsRequiredOutsideGlobalConfigs(t *testing.T) {
	required := matrix.Matrix{{Target: "win_x64", Configs: []string{"profile"}}}
	sel := Grid([]string{"win_x64"}, []string{"debug"}, required)

	profile := matrix.Cell{Target: "win_x64", Config: "profile"}
	if on, ok := sel[profile]; !ok || !on {
		t.Fatalf("required cell %s missing or unticked: %v", profile, sel)
	}
	if on := sel[matrix.Cell{Target: "win_x64", Config: "debug"}]; on {
		t.Error("optional cell ticked")
	}

	picked, err := sel.Choose(false, []string{"win_x64/profile"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if got := picked.Picked(); !reflect.DeepEqual(got, []matrix.Cell{profile}) {
		t.Errorf("Picked() = %v", got)
	}
}

func TestChoose(t *testing.T) {
	required := matrix.Matrix{{Target: "win_x64", Configs: []string{"release"}}}
	sel := Grid([]string{"win_x64", "linux_x64_gcc"}, []string{"debug", "release"}, required)

	def, err := sel.Choose(false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(def.Picked()) != 1 {
		t.Errorf("default picks %v, want the required cell", def.Picked())
	}

	all, err := sel.Choose(true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Picked()) != 4 {
		t.Errorf("all picks %d cells, want 4", len(all.Picked()))
	}

	some, err := sel.Choose(false, []string{"linux_x64_gcc/debug"})
	if err != nil {
		t.Fatal(err)
	}
	want := []matrix.Cell{{Target: "linux_x64_gcc", Config: "debug"}}
	if got := some.Picked(); !reflect.DeepEqual(got, want) {
		t.Errorf("Picked() = %v, want %v", got, want)
	}
	if len(sel.Picked()) != 1 {
		t.Error("Choose modified the original selection")
	}

	if _, err := sel.Choose(false, []string{"ps4/release"}); err == nil {
		t.Error("expected error for a cell outside the grid")
	}
	if _, err := sel.Choose(false, []string{"win_x64"}); err == nil {
		t.Error("expected error for a malformed cell")
	}
	if _, err := sel.Choose(true, []string{"win_x64/debug"}); err == nil {
		t.Error("expected error for all with picks")
	}
}

func TestBuild(t *testing.T) {
	sel := Selection{
		{Target: "win_x64", Config: "release"}:       true,
		{Target: "linux_x64_gcc", Config: "debug"}:   true,
		{Target: "linux_x64_gcc", Config: "release"}: false,
		{Target: "ps4", Config: "release"}:           true,
	}

	reqs := Build(sel, identity)

	if len(reqs) != 3 {
		t.Fatalf("Build() returned %d requests, want 3", len(reqs))
	}
	gotCells := []string{reqs[0].Cell.Label(), reqs[1].Cell.Label(), reqs[2].Cell.Label()}
	wantCells := []string{"linux_x64_gcc / debug", "ps4 / release", "win_x64 / release"}
	if !reflect.DeepEqual(gotCells, wantCells) {
		t.Errorf("cells = %v, want %v", gotCells, wantCells)
	}
	for _, r := range reqs {
		if r.Identity != identity {
			t.Errorf("%s: identity not carried: %+v", r.Cell.Label(), r.Identity)
		}
	}
	if reqs[0].Builder != BuilderLinux || reqs[2].Builder != BuilderWindows {
		t.Errorf("builders = %q, %q", reqs[0].Builder, reqs[2].Builder)
	}
	if reqs[1].Supported() {
		t.Error("ps4 request should be unsupported")
	}
}

func TestBuildEmptySelection(t *testing.T) {
	if reqs := Build(Selection{}, identity); len(reqs) != 0 {
		t.Fatalf("Build(empty) = %v", reqs)
	}
}

func TestArgs(t *testing.T) {
	id := identity
	id.Batch = "b-1"
	req := Request{Cell: matrix.Cell{Target: "win_x64", Config: "debug"}, Identity: id, Builder: BuilderWindows}

	got := req.Args(ClientConfig{
		Master:   "buildbot.example.com:8031",
		Connect:  "pb",
		Username: "build",
		Password: "build",
	})

	want := []string{
		"try",
		"--connect=pb",
		"--master=buildbot.example.com:8031",
		"--username=build",
		"--passwd=build",
		"--vc=git",
		"--builder=compile_win",
		"--properties=" + strings.Join([]string{
			"branch=release",
			"repository=github.com:CRYTEK-CRYENGINE/CRYENGINE.git",
			"head_ref=0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c",
			"sdk_repo_url=git@gitlab.com:patsytau/ce_sdks.git",
			"config=debug",
			"target=win_x64",
			"try_batch=b-1",
		}, ","),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() =\n%v\nwant\n%v", got, want)
	}
}

func TestValidate(t *testing.T) {
	ok := Request{Cell: matrix.Cell{Target: "win_x64", Config: "debug"}, Identity: identity, Builder: BuilderWindows}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	unsupported := ok
	unsupported.Builder = Unsupported
	if err := unsupported.Validate(); err == nil {
		t.Error("unsupported request validated")
	}

	comma := ok
	comma.Identity.Branch = "a,b"
	if err := comma.Validate(); err == nil {
		t.Error("comma in property validated")
	}

	noRef := ok
	noRef.Identity.HeadRef = ""
	if err := noRef.Validate(); err == nil {
		t.Error("missing head_ref validated")
	}
}
