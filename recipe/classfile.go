package recipe

import (
	"slices"

	"github.com/cpakg/cpak/mod/module"
	"github.com/qiniu/x/gsh"
)

const GopPackage = true

// Package kinds a recipe may declare.
const (
	// HeaderLibrary marks a package that ships only header files:
	// no binary or library artifacts are produced, and consumers add the
	// package's include directory to their search path.
	HeaderLibrary = "header-library"

	// Library marks a package that ships prebuilt library artifacts.
	Library = "library"
)

// -----------------------------------------------------------------------------

// Recipe represents the packaging recipe of a module.
type Recipe struct {
	gsh.App

	fOnRequire     func(proj *Project, deps *RecipeDeps)
	fOnPackage     func(ctx *Context, proj *Project, out *PackageResult)
	fOnPackageInfo func(info *CppInfo)

	modPath      string
	modVersion   string
	modLicense   string
	modFromVer   string
	scmURL       string
	scmRevision  string
	pkgType      string
	exports      string
	noCopySource bool
	matrix       Matrix
}

func (p *Recipe) app() *gsh.App {
	return &p.App
}

// Matrix declares the variant matrix this recipe supports.
func (p *Recipe) Matrix(m Matrix) {
	p.matrix = m
}

// Id sets the module path that this recipe serves.
// path should be in the form of "owner/repo".
func (p *Recipe) Id(path string) {
	p.modPath = path
}

// Version sets the package version this recipe describes.
func (p *Recipe) Version(ver string) {
	p.modVersion = ver
}

// License sets the package license identifier (e.g. "MIT").
func (p *Recipe) License(license string) {
	p.modLicense = license
}

// Scm declares where the package sources live and which revision to
// package. revision may be a tag, branch, or commit hash; "auto" (or an
// empty string) resolves the revision from the version tag.
func (p *Recipe) Scm(url, revision string) {
	p.scmURL = url
	p.scmRevision = revision
}

// PackageType sets the package kind (HeaderLibrary or Library).
func (p *Recipe) PackageType(kind string) {
	p.pkgType = kind
}

// ExportsSources sets the glob pattern selecting which source files are
// exported for packaging (e.g. "include/*").
func (p *Recipe) ExportsSources(pattern string) {
	p.exports = pattern
}

// NoCopySource declares that packaging reads the staged source tree in
// place instead of working on a private copy.
func (p *Recipe) NoCopySource(v bool) {
	p.noCopySource = v
}

// FromVer sets the minimum version of the module that this recipe serves.
func (p *Recipe) FromVer(ver string) {
	p.modFromVer = ver
}

// -----------------------------------------------------------------------------

// RecipeDeps collects the dependencies declared by a recipe.
type RecipeDeps struct {
	deps []module.Version
}

// Deps returns the collected module dependencies.
func (p *RecipeDeps) Deps() []module.Version {
	return slices.Clone(p.deps)
}

// Require declares that the module being packaged depends on the specified
// module (by its path and version).
func (p *RecipeDeps) Require(path, ver string) {
	p.deps = append(p.deps, module.Version{Path: path, Version: ver})
}

// OnRequire event is used to retrieve all direct dependencies of a
// project (module). proj is the project being packaged, deps is used to
// declare dependencies.
func (p *Recipe) OnRequire(f func(proj *Project, deps *RecipeDeps)) {
	p.fOnRequire = f
}

// -----------------------------------------------------------------------------

// PackageResult represents the result of packaging a project.
type PackageResult struct {
	errs  []error
	files []string // copied files, relative to the package dir
}

// AddErr records a packaging error.
func (b *PackageResult) AddErr(err error) {
	b.errs = append(b.errs, err)
}

// Errs returns all errors collected during packaging.
func (b *PackageResult) Errs() []error {
	return b.errs
}

// AddFiles records files placed into the package directory.
func (b *PackageResult) AddFiles(files ...string) {
	b.files = append(b.files, files...)
}

// Files returns the files placed into the package directory.
func (b *PackageResult) Files() []string {
	return slices.Clone(b.files)
}

// OnPackage event is used to instruct the recipe to populate the package
// directory from the project's sources.
func (p *Recipe) OnPackage(f func(ctx *Context, proj *Project, out *PackageResult)) {
	p.fOnPackage = f
}

// OnPackageInfo event is used to declare the package's consumer-facing
// metadata (include, library, and binary directories).
func (p *Recipe) OnPackageInfo(f func(info *CppInfo)) {
	p.fOnPackageInfo = f
}

// -----------------------------------------------------------------------------

// Gopt_Recipe_Main is main entry of this classfile.
func Gopt_Recipe_Main(this interface {
	app() *gsh.App
	MainEntry()
}) {
	this.MainEntry()
	gsh.InitApp(this.app())
}
