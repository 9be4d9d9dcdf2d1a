package internal

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cpakg/cpak/internal/modules"
	"github.com/cpakg/cpak/internal/pack"
	"github.com/cpakg/cpak/internal/recipe/repo"
	"github.com/cpakg/cpak/internal/vcs"
	"github.com/cpakg/cpak/mod/module"
	classfile "github.com/cpakg/cpak/recipe"
	"github.com/spf13/cobra"
)

var packVerbose bool
var packOutput string
var packLocal string

var packCmd = &cobra.Command{
	Use:   "pack [module@version]",
	Short: "Package a module to PackageDir",
	Long:  `Pack downloads a module's sources and packages them to PackageDir.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPack,
}

func init() {
	packCmd.Flags().BoolVarP(&packVerbose, "verbose", "v", false, "Enable verbose packaging output")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "Output path (directory or .zip file)")
	packCmd.Flags().StringVarP(&packLocal, "local", "l", "", "Directory with local recipes overriding the hub")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	modPath, version := parseModuleArg(args[0])

	ctx := context.Background()

	// Set up recipe store
	recipeDir, err := repo.DefaultDir()
	if err != nil {
		return fmt.Errorf("failed to get recipe dir: %w", err)
	}
	recipeRepo, err := vcs.NewRepo("github.com/cpakg/recipes")
	if err != nil {
		return err
	}
	store := repo.New(recipeDir, recipeRepo)

	// Load modules
	mods, err := modules.Load(ctx, module.Version{Path: modPath, Version: version}, modules.Options{
		Store:    store,
		LocalDir: packLocal,
	})
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	// Resolve output path to absolute before packaging (callbacks may change cwd)
	if packOutput != "" {
		abs, err := filepath.Abs(packOutput)
		if err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
		packOutput = abs
	}

	// Handle verbose output
	var savedStdout, savedStderr *os.File
	if !packVerbose {
		for _, mod := range mods {
			mod.SetStdout(io.Discard)
			mod.SetStderr(io.Discard)
		}

		// Redirect os.Stdout/os.Stderr so subprocess output (git, etc.) is also silenced
		savedStdout = os.Stdout
		savedStderr = os.Stderr
		devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("failed to open devnull: %w", err)
		}
		os.Stdout = devNull
		os.Stderr = devNull
		defer func() {
			devNull.Close()
			os.Stdout = savedStdout
			os.Stderr = savedStderr
		}()
	}

	matrix := classfile.Matrix{
		Require: map[string][]string{
			"os":   {runtime.GOOS},
			"arch": {runtime.GOARCH},
		},
	}
	matrixStr := matrix.Combinations()[0]

	// When -o is specified, use a temp workspace so we don't pollute the cache
	packOpts := pack.Options{
		MatrixStr: matrixStr,
	}
	if packOutput != "" {
		tmpDir, err := os.MkdirTemp("", "cpak-pack-*")
		if err != nil {
			return fmt.Errorf("failed to create temp workspace: %w", err)
		}
		defer os.RemoveAll(tmpDir)
		packOpts.WorkspaceDir = tmpDir
	}

	packager, err := pack.NewPackager(packOpts)
	if err != nil {
		return fmt.Errorf("failed to create packager: %w", err)
	}

	results, err := packager.Pack(ctx, mods)
	if err != nil {
		return fmt.Errorf("failed to pack %s@%s: %w", modPath, version, err)
	}

	// Restore stdout before printing results
	if !packVerbose {
		os.Stdout = savedStdout
		os.Stderr = savedStderr
	}

	// Print metadata for main module (last in packaging order)
	if len(results) > 0 {
		main := results[len(results)-1]
		if main.Metadata != "" {
			fmt.Println(main.Metadata)
		}

		// Output package contents if -o specified
		if packOutput != "" {
			if err := outputResult(main.PackageDir, packOutput); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}

	return nil
}

// parseModuleArg parses a module argument in the form "owner/repo@version" or "owner/repo".
func parseModuleArg(arg string) (modPath, version string) {
	for i := len(arg) - 1; i >= 0; i-- {
		if arg[i] == '@' {
			return arg[:i], arg[i+1:]
		}
	}
	return arg, ""
}

// outputResult writes the package contents to dest.
// If dest ends with ".zip", creates a zip archive; otherwise copies the directory.
func outputResult(srcDir, dest string) error {
	if strings.HasSuffix(dest, ".zip") {
		return zipDir(srcDir, dest)
	}
	return os.CopyFS(dest, os.DirFS(srcDir))
}

// zipDir creates a zip archive at dest from the contents of srcDir.
func zipDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = rel
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
}
