// Package recipe loads cpak recipe classfiles (_cpak.gox) and exposes
// their metadata and lifecycle callbacks to the rest of the tool.
package recipe

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goplus/ixgo"
	"github.com/goplus/ixgo/xgobuild"

	classfile "github.com/cpakg/cpak/recipe"

	_ "github.com/cpakg/cpak/internal/ixgo"
)

// Recipe represents a loaded recipe file with its metadata and callbacks.
//
// A recipe is the package descriptor of a module: it is constructed once
// per run by interpreting the classfile, is immutable afterwards, and is
// discarded when the run completes.
type Recipe struct {
	structElem reflect.Value

	// NOTE: these signatures MUST match with the method declarations
	// of Recipe in recipe/classfile.go.
	ModPath        string
	Version        string
	License        string
	FromVer        string
	SCMURL         string
	SCMRevision    string
	PackageType    string
	ExportsSources string
	NoCopySource   bool
	Matrix         classfile.Matrix

	OnRequire     func(proj *classfile.Project, deps *classfile.RecipeDeps)
	OnPackage     func(ctx *classfile.Context, proj *classfile.Project, out *classfile.PackageResult)
	OnPackageInfo func(info *classfile.CppInfo)
}

// LoadFS loads a recipe from a filesystem interface.
// This allows loading recipes from remote repositories or mock filesystems.
// The path should be relative to the filesystem root.
func LoadFS(fsys fs.ReadFileFS, path string) (*Recipe, error) {
	ctx := ixgo.NewContext(0)

	content, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source, err := xgobuild.BuildFile(ctx, path, content)
	if err != nil {
		return nil, err
	}
	pkgs, err := ctx.LoadFile("main.go", source)
	if err != nil {
		return nil, err
	}
	interp, err := ctx.NewInterp(pkgs)
	if err != nil {
		return nil, err
	}

	if err = interp.RunInit(); err != nil {
		return nil, err
	}
	structName, _, ok := strings.Cut(filepath.Base(path), "_")
	if !ok {
		return nil, fmt.Errorf("failed to load recipe: file name is not valid: %s", path)
	}
	typ, ok := interp.GetType(structName)
	if !ok {
		return nil, fmt.Errorf("failed to load recipe: struct name not found: %s", structName)
	}
	val := reflect.New(typ)
	class := val.Elem()

	val.Interface().(interface{ Main() }).Main()

	scmURL, scmRevision := valueOf(class, "scmURL").(string), valueOf(class, "scmRevision").(string)

	return &Recipe{
		structElem:     class,
		ModPath:        valueOf(class, "modPath").(string),
		Version:        valueOf(class, "modVersion").(string),
		License:        valueOf(class, "modLicense").(string),
		FromVer:        valueOf(class, "modFromVer").(string),
		SCMURL:         scmURL,
		SCMRevision:    scmRevision,
		PackageType:    valueOf(class, "pkgType").(string),
		ExportsSources: valueOf(class, "exports").(string),
		NoCopySource:   valueOf(class, "noCopySource").(bool),
		Matrix:         valueOf(class, "matrix").(classfile.Matrix),
		OnRequire:      valueOf(class, "fOnRequire").(func(*classfile.Project, *classfile.RecipeDeps)),
		OnPackage:      valueOf(class, "fOnPackage").(func(*classfile.Context, *classfile.Project, *classfile.PackageResult)),
		OnPackageInfo:  valueOf(class, "fOnPackageInfo").(func(*classfile.CppInfo)),
	}, nil
}

// SetStdout sets the stdout writer for the recipe's gsh.App.
// This is used to control packaging output verbosity.
func (r *Recipe) SetStdout(w io.Writer) {
	if r.structElem.IsValid() {
		setValue(r.structElem, "fout", w)
	}
}

// SetStderr sets the stderr writer for the recipe's gsh.App.
func (r *Recipe) SetStderr(w io.Writer) {
	if r.structElem.IsValid() {
		setValue(r.structElem, "ferr", w)
	}
}
