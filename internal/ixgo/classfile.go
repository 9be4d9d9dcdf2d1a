// Copyright 2025 The cpak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ixgo

import (
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/mod/modfile"

	_ "github.com/cpakg/cpak/internal/ixgo/pkg/github.com/cpakg/cpak/cmp"
	_ "github.com/cpakg/cpak/internal/ixgo/pkg/github.com/cpakg/cpak/mod/module"
	_ "github.com/cpakg/cpak/internal/ixgo/pkg/github.com/cpakg/cpak/recipe"
	_ "github.com/cpakg/cpak/internal/ixgo/pkg/github.com/cpakg/cpak/x/gnu"
	_ "github.com/cpakg/cpak/internal/ixgo/pkg/github.com/qiniu/x/gsh"
	_ "github.com/cpakg/cpak/internal/ixgo/pkg/golang.org/x/mod/semver"
)

func init() {
	xgobuild.RegisterProject(&modfile.Project{
		Ext:   "_cmp.gox",
		Class: "CmpApp",
		PkgPaths: []string{
			"github.com/cpakg/cpak/cmp",
		},
		Import: []*modfile.Import{
			{
				Name: "semver",
				Path: "golang.org/x/mod/semver",
			},
			{
				Name: "gnu",
				Path: "github.com/cpakg/cpak/x/gnu",
			},
		},
	})
	xgobuild.RegisterProject(&modfile.Project{
		Ext:   "_cpak.gox",
		Class: "Recipe",
		PkgPaths: []string{
			"github.com/cpakg/cpak/recipe",
		},
	})
}
