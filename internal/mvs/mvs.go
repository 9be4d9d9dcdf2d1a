// Package mvs implements Minimal Version Selection over module
// requirement graphs with pluggable version ordering.
package mvs

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/cpakg/cpak/internal/mvs/par"
	"github.com/cpakg/cpak/mod/module"
)

// A Reqs is the requirement graph on which Minimal Version Selection (MVS)
// operates. The version "none" denotes the absence of a module.
type Reqs interface {
	// Required returns the module versions explicitly required by m itself.
	// The caller must not modify the returned list.
	Required(m module.Version) ([]module.Version, error)

	// Max returns the maximum of v1 and v2 (it returns either v1 or v2)
	// in the version ordering of the module at path.
	//
	// For all versions v, Max(v, "none") must be v,
	// and for the main module's version vM, Max(v, vM) must be vM.
	Max(path, v1, v2 string) string

	// Upgrade returns the upgraded version of m.
	// If m should be kept as is, Upgrade returns m.
	Upgrade(m module.Version) (module.Version, error)
}

// BuildList returns the build list for the target modules.
//
// The first entries are the targets themselves, in the given order.
// The remaining entries are the maximum version of each module path
// mentioned in the requirement graph, in sorted order.
func BuildList(targets []module.Version, reqs Reqs) ([]module.Version, error) {
	// Explore the requirement graph in parallel: loading a module's
	// requirements may need the network.
	var (
		mu       sync.Mutex
		required = map[module.Version][]module.Version{}
		loadErrs = map[module.Version]error{}
	)
	var work par.Work[module.Version]
	for _, m := range targets {
		work.Add(m)
	}
	work.Do(8, func(m module.Version) {
		list, err := reqs.Required(m)
		mu.Lock()
		required[m] = list
		if err != nil {
			loadErrs[m] = err
		}
		mu.Unlock()
		if err != nil {
			return
		}
		for _, dep := range list {
			if dep.Version != "none" {
				work.Add(dep)
			}
		}
	})

	// Surface load errors in a deterministic order: breadth-first from
	// the targets.
	seen := map[module.Version]bool{}
	queue := slices.Clone(targets)
	for _, m := range targets {
		seen[m] = true
	}
	var vertices []module.Version
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if err := loadErrs[m]; err != nil {
			return nil, fmt.Errorf("load %s@%s: %w", m.Path, m.Version, err)
		}
		vertices = append(vertices, m)
		for _, dep := range required[m] {
			if dep.Version == "none" || seen[dep] {
				continue
			}
			seen[dep] = true
			queue = append(queue, dep)
		}
	}

	// Select the maximum version of each module path.
	max := map[string]string{}
	for _, m := range vertices {
		if v, ok := max[m.Path]; ok {
			max[m.Path] = reqs.Max(m.Path, v, m.Version)
		} else {
			max[m.Path] = m.Version
		}
	}

	// Targets lead the list; everything else follows in sorted order.
	isTarget := map[string]bool{}
	for _, m := range targets {
		isTarget[m.Path] = true
	}
	var rest []module.Version
	for path, ver := range max {
		if !isTarget[path] && ver != "none" {
			rest = append(rest, module.Version{Path: path, Version: ver})
		}
	}
	sortWith(cmpFromMax(reqs), rest)

	return append(slices.Clone(targets), rest...), nil
}

// Req returns the minimal requirement list for the target module,
// with the constraint that all module paths listed in base must
// appear in the returned list.
func Req(target module.Version, base []string, reqs Reqs) ([]module.Version, error) {
	list, err := BuildList([]module.Version{target}, reqs)
	if err != nil {
		return nil, err
	}

	// Note: maintain a postorder of the requirement graph rooted at target.
	var postorder []module.Version
	reqCache := map[module.Version][]module.Version{}
	reqCache[target] = nil

	var walk func(module.Version) error
	walk = func(m module.Version) error {
		_, ok := reqCache[m]
		if ok {
			return nil
		}
		required, err := reqs.Required(m)
		if err != nil {
			return err
		}
		reqCache[m] = required
		for _, m1 := range required {
			if m1.Version == "none" {
				continue
			}
			if err := walk(m1); err != nil {
				return err
			}
		}
		postorder = append(postorder, m)
		return nil
	}
	for _, m := range list {
		if err := walk(m); err != nil {
			return nil, err
		}
	}

	// Walk the requirement graph marking everything implied by a chosen
	// root; roots whose subtree is already implied need not be listed.
	have := map[module.Version]bool{}
	var mark func(module.Version)
	mark = func(m module.Version) {
		if have[m] {
			return
		}
		have[m] = true
		for _, m1 := range reqCache[m] {
			if m1.Version != "none" {
				mark(m1)
			}
		}
	}

	max := map[string]string{}
	for _, m := range list {
		max[m.Path] = m.Version
	}

	var min []module.Version
	haveBase := map[string]bool{}
	for _, path := range base {
		if haveBase[path] || path == target.Path {
			continue
		}
		m := module.Version{Path: path, Version: max[path]}
		min = append(min, m)
		mark(m)
		haveBase[path] = true
	}
	for i := len(postorder) - 1; i >= 0; i-- {
		m := postorder[i]
		if max[m.Path] != m.Version {
			// Older version, implied by a newer one elsewhere.
			continue
		}
		if m.Path == target.Path {
			continue
		}
		if !have[m] {
			min = append(min, m)
			mark(m)
		}
	}
	sort.Slice(min, func(i, j int) bool {
		return min[i].Path < min[j].Path
	})
	return min, nil
}

// cmpFromMax derives a three-way comparator from the Max operation of reqs.
func cmpFromMax(reqs Reqs) func(p, v1, v2 string) int {
	return func(p, v1, v2 string) int {
		if v1 == v2 {
			return 0
		}
		if reqs.Max(p, v1, v2) == v2 {
			return -1
		}
		return 1
	}
}
