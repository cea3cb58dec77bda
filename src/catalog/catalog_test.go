package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sofmeright/buildgate/src/matrix"
)

func TestBuiltinIsValid(t *testing.T) {
	c := Builtin()
	if err := c.Validate(); err != nil {
		t.Fatalf("builtin catalog invalid: %v", err)
	}
	want := []string{"linux_x64_clang", "linux_x64_gcc", "win_x64", "win_x86"}
	got := c.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", got, want)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Builtin().Lookup("amiga_68k")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestCheckMatrix(t *testing.T) {
	c := Builtin()
	ok := matrix.Matrix{{Target: "win_x64", Configs: []string{"debug"}}}
	if err := c.Check(ok); err != nil {
		t.Fatalf("Check: %v", err)
	}
	bad := matrix.Matrix{
		{Target: "win_x64", Configs: []string{"debug"}},
		{Target: "ps4", Configs: []string{"release"}},
	}
	if err := c.Check(bad); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.toml")
	overlay := `
[targets.win_x64]
family = "windows"
generator = "Visual Studio 17 2022"
toolchain_path = "Tools/CMake/toolchain/windows/WindowsPC-MSVC.cmake"
vs_platform = "x64"
solution_tag = "Win64"
link_command = ["mklink", "/J", "{project}\\Code\\SDKs", "ce_sdks"]
unlink_command = ["rmdir", "{project}\\Code\\SDKs"]

[targets.linux_arm64_gcc]
family = "linux"
generator = "Ninja"
toolchain_path = "Tools/CMake/toolchain/linux/Linux_GCC_ARM64.cmake"
link_command = ["ln", "-s", "ce_sdks", "{project}/Code/SDKs"]
unlink_command = ["rm", "{project}/Code/SDKs"]
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
	win, err := c.Lookup("win_x64")
	if err != nil {
		t.Fatal(err)
	}
	if win.Generator != "Visual Studio 17 2022" {
		t.Errorf("overlay did not replace win_x64 generator: %q", win.Generator)
	}
	arm, err := c.Lookup("linux_arm64_gcc")
	if err != nil {
		t.Fatal(err)
	}
	if arm.ID != "linux_arm64_gcc" || arm.Family != Linux {
		t.Errorf("unexpected overlay spec: %+v", arm)
	}
}

func TestLoadFileRejectsBadFamily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.toml")
	overlay := `
[targets.mac_arm64]
family = "darwin"
generator = "Xcode"
link_command = ["ln", "-s", "ce_sdks", "{project}/Code/SDKs"]
unlink_command = ["rm", "{project}/Code/SDKs"]
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error for unknown family")
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.toml")
	if err := os.WriteFile(path, []byte("[targets.x]\nfamly = \"linux\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}
