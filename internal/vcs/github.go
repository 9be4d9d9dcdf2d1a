// Copyright 2025 The cpak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// githubClient talks to GitHub without the REST API: refs come from the
// git CLI, single files from raw.githubusercontent.com.
type githubClient struct {
	httpClient *http.Client
}

func newGitHubClient() *githubClient {
	return &githubClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *githubClient) repoURL(owner, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, repo)
}

// Tags lists the repository's tags via git ls-remote.
func (g *githubClient) Tags(ctx context.Context, owner, repo string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-remote", "--tags", "--refs", g.repoURL(owner, repo))
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-remote: %w", err)
	}

	// One line per tag: <sha>\trefs/tags/<name>
	var tags []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		_, ref, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		tags = append(tags, strings.TrimPrefix(ref, "refs/tags/"))
	}
	return tags, nil
}

// Latest resolves the commit hash of the default branch via git ls-remote.
func (g *githubClient) Latest(ctx context.Context, owner, repo string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-remote", g.repoURL(owner, repo), "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git ls-remote: %w", err)
	}

	sha, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\t")
	if sha == "" {
		return "", fmt.Errorf("no HEAD ref found")
	}
	return sha, nil
}

// ReadFile fetches one file at ref from raw.githubusercontent.com.
func (g *githubClient) ReadFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	url := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, ref, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, fmt.Errorf("file not found: %s", path)
	default:
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
}

// gitRun runs one git command in dir, surfacing the command's combined
// output on failure.
func gitRun(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w\n%s", args[0], err, output)
	}
	return nil
}

// SyncDir materializes the subdirectory path of the repository at ref under
// destDir. Subdirectories go through a sparse checkout; the whole tree, or
// a failed sparse attempt, goes through a shallow fetch.
func (g *githubClient) SyncDir(ctx context.Context, owner, repo, ref, path, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	if path = filepath.Clean(path); path == "." {
		path = ""
	}
	if path != "" {
		if err := g.syncSparse(ctx, owner, repo, ref, path, destDir); err == nil {
			return nil
		}
	}
	return g.syncShallow(ctx, owner, repo, ref, destDir)
}

// syncSparse checks out only the given subdirectory. The first sync of
// destDir sets the sparse patterns; later syncs add to them, so directories
// from earlier syncs stay in the working tree.
func (g *githubClient) syncSparse(ctx context.Context, owner, repo, ref, path, destDir string) error {
	pattern := filepath.ToSlash(path) + "/**"
	if _, err := os.Stat(filepath.Join(destDir, ".git")); err != nil {
		gitRun(ctx, destDir, "init")
		gitRun(ctx, destDir, "remote", "add", "origin", g.repoURL(owner, repo))
		if err := gitRun(ctx, destDir, "sparse-checkout", "init", "--no-cone"); err != nil {
			return err
		}
		if err := gitRun(ctx, destDir, "sparse-checkout", "set", pattern); err != nil {
			return err
		}
	} else {
		if err := gitRun(ctx, destDir, "sparse-checkout", "add", pattern); err != nil {
			return err
		}
	}

	if err := gitRun(ctx, destDir, "fetch", "--depth=1", "--filter=blob:none", "origin", ref); err != nil {
		return err
	}
	return gitRun(ctx, destDir, "checkout", "FETCH_HEAD")
}

// syncShallow fetches the whole tree at ref with depth 1. init and
// remote-add may fail when a previous sync set them up already; the fetch
// reports the real problems.
func (g *githubClient) syncShallow(ctx context.Context, owner, repo, ref, destDir string) error {
	gitRun(ctx, destDir, "init")
	gitRun(ctx, destDir, "remote", "add", "origin", g.repoURL(owner, repo))

	if err := gitRun(ctx, destDir, "fetch", "--depth=1", "origin", ref); err != nil {
		return err
	}
	return gitRun(ctx, destDir, "checkout", "FETCH_HEAD")
}
