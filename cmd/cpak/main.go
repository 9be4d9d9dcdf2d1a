// Copyright 2025 The cpak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpakg/cpak/cmd/cpak/internal"
)

func main() {
	internal.Execute()
}
