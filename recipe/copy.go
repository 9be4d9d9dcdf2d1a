package recipe

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Copy copies every file under srcDir matching pattern into dstDir,
// preserving relative paths. Files are copied verbatim, with no
// transformation or renaming.
//
// If pattern contains a path separator (e.g. "include/*"), it is matched
// against the slash-separated path relative to srcDir; otherwise it is
// matched against the file's base name (e.g. "*.h" matches headers at any
// depth). An empty pattern matches everything.
//
// Copy returns the relative paths of the copied files, in lexical order.
func Copy(pattern, srcDir, dstDir string) ([]string, error) {
	var copied []string

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		ok, err := match(pattern, rel, d.Name())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := copyFile(path, filepath.Join(dstDir, rel)); err != nil {
			return err
		}
		copied = append(copied, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func match(pattern, rel, name string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	if strings.ContainsRune(pattern, '/') {
		return path.Match(pattern, filepath.ToSlash(rel))
	}
	return path.Match(pattern, name)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
