package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpakg/cpak/internal/modules"
	"github.com/cpakg/cpak/internal/recipe/repo"
	"github.com/cpakg/cpak/internal/vcs"
	"github.com/cpakg/cpak/mod/module"
	"github.com/cpakg/cpak/mod/versions"
	"github.com/spf13/cobra"
)

var tidyCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Tidy the module dependencies using MVS",
	Long:  `Tidy resolves all dependencies using the Minimal Version Selection (MVS) algorithm and updates versions.json.`,
	RunE:  runTidy,
}

func init() {
	rootCmd.AddCommand(tidyCmd)
}

func runTidy(cmd *cobra.Command, args []string) error {
	versionsPath := filepath.Join(".", "versions.json")
	if _, err := os.Stat(versionsPath); os.IsNotExist(err) {
		return fmt.Errorf("versions.json not found, run 'cpak init' first")
	}

	v, err := versions.Parse(versionsPath, nil)
	if err != nil {
		return fmt.Errorf("failed to parse versions.json: %w", err)
	}

	if len(v.Dependencies) == 0 {
		fmt.Println("No dependencies to tidy")
		return nil
	}

	ctx := context.Background()

	recipeDir, err := repo.DefaultDir()
	if err != nil {
		return fmt.Errorf("failed to get recipe dir: %w", err)
	}
	recipeRepo, err := vcs.NewRepo("github.com/cpakg/recipes")
	if err != nil {
		return err
	}
	store := repo.New(recipeDir, recipeRepo)

	// Tidy every version that declares dependencies.
	for ver := range v.Dependencies {
		mainMod := module.Version{Path: v.Path, Version: ver}
		_, err = modules.Load(ctx, mainMod, modules.Options{Tidy: true, Store: store})
		if err != nil {
			return fmt.Errorf("failed to tidy dependencies for %s@%s: %w", v.Path, ver, err)
		}
		fmt.Printf("Tidied dependencies for %s@%s\n", v.Path, ver)
	}

	return nil
}
