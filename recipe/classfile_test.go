package recipe

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cpakg/cpak/mod/module"
)

func TestRecipeDeps(t *testing.T) {
	var deps RecipeDeps

	deps.Require("owner/a", "1.0.0")
	deps.Require("owner/b", "2.0.0")

	want := []module.Version{
		{Path: "owner/a", Version: "1.0.0"},
		{Path: "owner/b", Version: "2.0.0"},
	}
	got := deps.Deps()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deps() = %v, want %v", got, want)
	}

	// Deps returns a clone; mutating it must not affect the collected deps.
	got[0].Version = "9.9.9"
	if deps.Deps()[0].Version != "1.0.0" {
		t.Error("Deps() did not return a copy")
	}
}

func TestPackageResult(t *testing.T) {
	var out PackageResult

	if len(out.Errs()) != 0 || len(out.Files()) != 0 {
		t.Error("zero PackageResult should have no errors or files")
	}

	out.AddFiles("include/a.h", "include/b.h")
	out.AddErr(errors.New("boom"))

	if got := out.Files(); len(got) != 2 {
		t.Errorf("Files() = %v, want 2 entries", got)
	}
	if got := out.Errs(); len(got) != 1 || got[0].Error() != "boom" {
		t.Errorf("Errs() = %v, want [boom]", got)
	}
}
