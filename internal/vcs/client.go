// Copyright 2025 The cpak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"fmt"
)

// client is the per-host access a Repo needs: listing refs, reading single
// files, and materializing directory trees at a revision.
type client interface {
	// Tags returns all tags of the repository.
	Tags(ctx context.Context, owner, repo string) ([]string, error)

	// Latest returns the commit hash the default branch points at.
	Latest(ctx context.Context, owner, repo string) (string, error)

	// ReadFile reads one file of the repository at ref.
	ReadFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error)

	// SyncDir downloads the subdirectory path at ref into destDir.
	// An empty path downloads the whole tree.
	SyncDir(ctx context.Context, owner, repo, ref, path, destDir string) error
}

// newClient creates a client for the specified host.
func newClient(host string) (client, error) {
	switch host {
	case "github.com":
		return newGitHubClient(), nil
	default:
		return nil, fmt.Errorf("unsupported host: %s", host)
	}
}
