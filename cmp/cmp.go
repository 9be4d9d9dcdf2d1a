// Package cmp is the classfile for custom version comparators (_cmp.gox).
package cmp

import "github.com/cpakg/cpak/mod/module"

const GopPackage = true

// CmpApp is the comparator classfile. A _cmp.gox file calls compareVer
// with a function defining the module's version ordering.
type CmpApp struct {
	fCompareVer module.VersionComparator
}

// CompareVer sets the version comparator for the module.
func (f *CmpApp) CompareVer(fn module.VersionComparator) {
	f.fCompareVer = fn
}

// Gopt_CmpApp_Main is main entry of this classfile.
func Gopt_CmpApp_Main(this interface{ MainEntry() }) {
	this.MainEntry()
}
